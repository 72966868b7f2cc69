// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

// Package web exposes the HTTP API.
//
// Routing uses chi; handlers decode JSON, call the auth and game
// services, and encode the result. Domain errors carry codes that the
// respond helpers map onto HTTP statuses in one place, so handlers
// never pick status codes themselves. Storage faults surface as a
// generic 500 with the detail kept out of the response body.
package web
