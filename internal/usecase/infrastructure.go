package usecase

import "context"

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	CleanupImages(keys []string)
}

// AuditPublisher отправляет события аудита в шину сообщений по принципу best-effort.
type AuditPublisher interface {
	PublishAudit(ctx context.Context, event *AuditEvent) error
}

// Probe проверяет доступность внешней зависимости (хранилище, кэш).
type Probe interface {
	Component() string
	Probe(ctx context.Context) (*ProbeReport, error)
}
