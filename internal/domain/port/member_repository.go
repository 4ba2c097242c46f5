// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// MemberReaderWriter defines the interface for member data persistence.
// This interface represents pure storage operations without orchestration logic.
// Every mutation runs as one read-modify-write cycle behind the
// implementation's serialization point, so concurrent writers never lose updates.
//
// This interface follows the Repository pattern and is implemented by:
//   - JSON file store (default)
//   - bbolt store
//   - NATS KV store
//   - Mock storage layer (testing)
//
// For business logic orchestration, see service.MemberWriter.
type MemberReaderWriter interface {
	MemberReader
	MemberWriter

	// IsReady reports whether the backing storage can serve requests
	IsReady(ctx context.Context) error
}
