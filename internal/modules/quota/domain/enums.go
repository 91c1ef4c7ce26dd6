//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Category is the YouTube Data API resource a quota unit is charged against
// ENUM(search,channels,videos)
type Category string
