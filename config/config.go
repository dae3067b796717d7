package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultPageSize = 10

type Config struct {
	ServicePort   string
	MetricsPort   string
	Environment   string
	PageSize      int
	UploadsDir    string
	MongoDBConfig MongoDBConfig
	KafkaConfig   KafkaConfig
	SMTPConfig    SMTPConfig
	JWTSecret     string
	TracingConfig TracingConfig
}

type MongoDBConfig struct {
	URI    string
	DBName string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
		UploadsDir:  os.Getenv("UPLOADS_DIR"),
		MongoDBConfig: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: os.Getenv("MONGODB_DB_NAME"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		SMTPConfig: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	if conf.MongoDBConfig.DBName == "" {
		conf.MongoDBConfig.DBName = "storefront"
	}

	if conf.UploadsDir == "" {
		conf.UploadsDir = "uploads"
	}

	conf.PageSize = defaultPageSize
	if pageSize, err := strconv.Atoi(os.Getenv("PAGE_SIZE")); err == nil && pageSize > 0 {
		conf.PageSize = pageSize
	}

	if brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION")); err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	if smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		conf.SMTPConfig.Port = smtpPort
	}

	return &conf
}
