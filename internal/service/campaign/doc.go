// Package campaign implements simulation-campaign lifecycle management.
//
// The service layer contains the business logic for creating, listing,
// and archiving campaigns and for deriving per-recipient tracking links.
// It depends on the Repository interface defined in this package and
// should never import from api/ or tracking/.
//
// Repository implementations live in storage/ (DynamoDB); tests use an
// in-memory implementation.
package campaign
