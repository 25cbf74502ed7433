package app

import (
	"context"
	"fmt"

	config "github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/internal/repository/mongodb"
	"github.com/DRSN-tech/ecommerce-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/clients"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// store — репозитории выбранного документного хранилища и проба его доступности.
type store struct {
	products usecase.ProductRepository
	reviews  usecase.ReviewRepository
	tokens   usecase.TokenRepository
	probe    usecase.Probe
}

func (a *App) initStore() (*store, error) {
	switch a.cfg.Store.Driver {
	case config.StoreDriverMongo:
		return a.initMongo()
	case config.StoreDriverPostgres:
		return a.initPGDB()
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

func (a *App) initMongo() (*store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := clients.NewMongoClient(ctx, a.cfg.Mongo)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to mongo")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("mongo", client.Close)

	if err := mongodb.EnsureIndexes(ctx, client.DB); err != nil {
		a.logger.Errorf(err, "failed to ensure mongo indexes")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &store{
		products: mongodb.NewProductRepo(client.DB),
		reviews:  mongodb.NewReviewRepo(client.DB),
		tokens:   mongodb.NewTokenRepo(client.DB),
		probe:    mongodb.NewHealthProbe(client.DB),
	}, nil
}

func (a *App) initPGDB() (*store, error) {
	db, err := postgres.Connect(context.Background(), a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddFunc("postgres", db.Close)

	if err := db.Migrate(a.logger); err != nil {
		a.logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &store{
		products: pgdb.NewProductRepo(db.Pool),
		reviews:  pgdb.NewReviewRepo(db.Pool),
		tokens:   pgdb.NewTokenRepo(db.Pool),
		probe:    pgdb.NewHealthProbe(db.Pool),
	}, nil
}
