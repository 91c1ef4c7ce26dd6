//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// RejectReason names the first criterion a channel failed
// ENUM(subscribers,views,age)
type RejectReason string
