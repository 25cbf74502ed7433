package mongodb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const ProbeComponent = "store"

// HealthProbe проверяет MongoDB: ping, версия и соединения из serverStatus, список коллекций.
type HealthProbe struct {
	db *mongo.Database
}

func NewHealthProbe(db *mongo.Database) *HealthProbe {
	return &HealthProbe{db: db}
}

func (h *HealthProbe) Component() string {
	return ProbeComponent
}

func (h *HealthProbe) Probe(ctx context.Context) (*usecase.ProbeReport, error) {
	if err := h.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	details := map[string]string{
		"driver":   "mongodb",
		"database": h.db.Name(),
	}

	var status struct {
		Version     string `bson:"version"`
		Connections struct {
			Current   int64 `bson:"current"`
			Available int64 `bson:"available"`
		} `bson:"connections"`
	}
	if err := h.db.RunCommand(ctx, bson.D{{Key: "serverStatus", Value: 1}}).Decode(&status); err == nil {
		details["version"] = status.Version
		details["connections_current"] = fmt.Sprint(status.Connections.Current)
		details["connections_available"] = fmt.Sprint(status.Connections.Available)
	}

	if names, err := h.db.ListCollectionNames(ctx, bson.D{}); err == nil {
		sort.Strings(names)
		details["collections"] = strings.Join(names, ",")
	}

	return usecase.NewProbeReport(ProbeComponent, details, nil), nil
}
