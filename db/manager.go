package db

import (
	"context"
	"fmt"

	"checkin/config"
	"checkin/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Manager - обертка над gorm-подключением. Создается один раз при старте
// процесса и передается сервисам явно, без глобального состояния.
type Manager struct {
	orm *gorm.DB
}

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

// Connect открывает подключение к мастеру, регистрирует реплики для чтения
// и прогоняет автомиграцию моделей.
func Connect(conf *config.ConfigSchema) (*Manager, error) {
	if conf == nil {
		return nil, fmt.Errorf("AppConfig is not loaded")
	}
	if conf.Databases.Master.Host == "" {
		return nil, fmt.Errorf("master database configuration is missing")
	}

	masterDSN := dsnFromConfig(conf.Databases.Master)
	replicaDSNs := make([]gorm.Dialector, 0, len(conf.Databases.Replicas))
	for _, r := range conf.Databases.Replicas {
		replicaDSNs = append(replicaDSNs, postgres.Open(dsnFromConfig(r)))
	}

	orm, err := gorm.Open(postgres.Open(masterDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if len(replicaDSNs) > 0 {
		err = orm.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDSNs,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, err
		}
	}

	manager := &Manager{orm: orm}
	if err := manager.Migrate(); err != nil {
		return nil, err
	}
	return manager, nil
}

// NewManager оборачивает готовое подключение (используется в тестах с SQLite).
func NewManager(orm *gorm.DB) *Manager {
	return &Manager{orm: orm}
}

func (m *Manager) Migrate() error {
	return m.orm.AutoMigrate(
		&models.User{},
		&models.UserTokens{},
		&models.CheckIn{},
		&models.Friend{},
		&models.ShitChat{},
		&models.ApiUsage{},
	)
}

// Read возвращает подключение для чтения (реплики, если настроены)
func (m *Manager) Read(ctx context.Context) *gorm.DB {
	return m.orm.WithContext(ctx).Clauses(dbresolver.Read)
}

// Write возвращает подключение для записи (мастер)
func (m *Manager) Write(ctx context.Context) *gorm.DB {
	return m.orm.WithContext(ctx).Clauses(dbresolver.Write)
}

// Ping проверяет доступность базы для health-пробы.
func (m *Manager) Ping(ctx context.Context) error {
	return m.orm.WithContext(ctx).Exec("SELECT 1").Error
}

func (m *Manager) Close() error {
	sqlDB, err := m.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
