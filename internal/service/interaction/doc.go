// Package interaction implements the interaction-recording pipeline.
//
// The Recorder is the only writer of participant engagement data: it
// appends an immutable interaction event under the recipient's record and
// bumps the matching denormalized counter on the parent campaign. It
// depends on the Repository interface defined in this package and should
// never import from tracking/ or api/.
//
// Repository implementations live in storage/ (DynamoDB); tests use an
// in-memory implementation.
package interaction
