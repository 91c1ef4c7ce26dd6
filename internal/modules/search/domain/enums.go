//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Stage is the position of a search session in its pipeline
// ENUM(idle,discovering,fetching_basics,filtering,enriching,done,error)
type Stage string

// EventKind identifies what an Event carries
// ENUM(stage,progress,log,result,message,summary,error)
type EventKind string

// RunKind distinguishes a full search from a load-more continuation
// ENUM(search,load_more)
type RunKind string
