// Package session defines the refinement session entity and its state
// machine: Draft sessions accept hole resolutions and validation passes,
// Finalized sessions are read-only. The package holds type definitions,
// snapshot/export plumbing, and the structured error taxonomy shared by the
// resolution protocol, the validators, and the engine service.
//
// Layering: session imports only ir. The protocol and validator packages
// import session; session never imports them.
package session
