package config

import "time"

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	RedisConfig        RedisStorageConfig
	HttpPort           int
	StorageType        StorageType
	SqlitePath         string
	IntentModel        string
	MaxStepsPerTurn    int
	CollaboratorTimeout time.Duration
	SessionTTL         time.Duration
	Debug              bool
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}
