package models

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string
