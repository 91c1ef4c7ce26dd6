//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package config

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string

// CacheBackend selects the persistent key/value store behind the response cache
// ENUM(memory,file,sqlite,redis)
type CacheBackend string
