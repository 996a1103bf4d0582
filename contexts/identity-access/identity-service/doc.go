// Package identityservice resolves inbound credentials into identity claims
// for the FAAS backend.
//
// Layering:
// - domain: user directory entities and errors
// - application: credential resolution use cases using explicit ports
// - ports: stable boundaries for the user directory and token strategies
// - adapters: demo/JWT token resolvers, memory and postgres directories
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Record modules only ever see the resolved identity.Identity value,
//   never raw credentials.
// - Do not import other context adapters into domain/application.
package identityservice
