package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation history.
type Message struct {
	Role    Role   `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// DimensionTuple is the parameter set used to seed one family of synthetic queries.
// Field order matters: it fixes the canonical JSON form used for deduplication.
type DimensionTuple struct {
	Occasion      string   `json:"occasion"`
	AuthorStyle   string   `json:"author_style"`
	Ingredients   []string `json:"ingredients"`
	CookingMethod string   `json:"cooking_method"`
}

// Canonical returns the compact JSON encoding of the tuple. Two tuples are
// equal iff their canonical forms are byte-identical.
func (d DimensionTuple) Canonical() string {
	if d.Ingredients == nil {
		d.Ingredients = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of strings cannot fail.
	_ = enc.Encode(d)
	return strings.TrimSuffix(buf.String(), "\n")
}

// DimensionTuplesList is the structured output schema for tuple generation.
type DimensionTuplesList struct {
	Tuples []DimensionTuple `json:"tuples"`
}

// QueriesList is the structured output schema for query synthesis.
type QueriesList struct {
	Queries []string `json:"queries"`
}

// QueryWithDimensions is one synthetic query together with the tuple that seeded it.
type QueryWithDimensions struct {
	ID                 string         `json:"id"`
	Query              string         `json:"query"`
	DimensionTuple     DimensionTuple `json:"dimension_tuple"`
	IsRealisticAndKept int            `json:"is_realistic_and_kept"`
	NotesForFiltering  string         `json:"notes_for_filtering"`
}

// NewQueryWithDimensions applies the default filtering flags.
func NewQueryWithDimensions(id, query string, tuple DimensionTuple) QueryWithDimensions {
	return QueryWithDimensions{
		ID:                 id,
		Query:              query,
		DimensionTuple:     tuple,
		IsRealisticAndKept: 1,
		NotesForFiltering:  "",
	}
}

// RecipeResponse pairs a query with the recipe generated for it.
type RecipeResponse struct {
	Query  string `json:"query"`
	Recipe string `json:"recipe"`
}

// Result carries either a value or the reason it could not be produced.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fail wraps a failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the result holds a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}
