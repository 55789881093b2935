// Package repository provides data access operations for the application.
package repository

import (
	"go.mongodb.org/mongo-driver/bson"
)

// and combines filters, dropping empty ones.
func and(filters ...bson.M) bson.M {
	parts := bson.A{}
	for _, f := range filters {
		if len(f) > 0 {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0].(bson.M)
	default:
		return bson.M{"$and": parts}
	}
}
