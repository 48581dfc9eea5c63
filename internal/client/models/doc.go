// Package models defines the response and request schemas of the marketplace
// API.
//
// Every response type that the API client decodes may implement Validator;
// the client calls Validate right after decoding so a payload of the wrong
// shape fails at the boundary instead of rendering as zero values. Keys the
// backend is known to omit are pointer or slice fields and are documented as
// optional on the type.
package models
