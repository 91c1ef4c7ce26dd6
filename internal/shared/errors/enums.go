//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package errors

// Kind classifies failures surfaced by a search run
// ENUM(unknown,validation,quota_exceeded,invalid_credential,api_not_enabled,bad_request,network)
type Kind string
