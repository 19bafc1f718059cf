package submission

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gowebpki/jcs"
)

// Serialize renders the payload as pretty JSON with two-space indentation and
// keys in declared field order. The output feeds the observability channel;
// exact whitespace is not a compatibility contract.
func Serialize(payload FormPayload) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}
	return string(data), nil
}

// Parse decodes a serialized payload. Unknown fields are rejected: the only
// legal producer of this form is Serialize.
func Parse(doc string) (FormPayload, error) {
	var payload FormPayload
	decoder := json.NewDecoder(strings.NewReader(doc))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return FormPayload{}, fmt.Errorf("parsing payload: %w", err)
	}
	return payload, nil
}

// Canonical returns the RFC 8785 canonical JSON form of the payload, used for
// deterministic equivalence checks and digests.
func Canonical(payload FormPayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing payload: %w", err)
	}
	return canonical, nil
}

// Digest returns the SHA-256 hex digest of the payload's canonical form.
func Digest(payload FormPayload) (string, error) {
	canonical, err := Canonical(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// checkRoundTrip verifies that reparsed is deep-equal to original by comparing
// canonical forms. A mismatch is a codec defect.
func checkRoundTrip(original, reparsed FormPayload) error {
	originalCanonical, err := Canonical(original)
	if err != nil {
		return err
	}
	reparsedCanonical, err := Canonical(reparsed)
	if err != nil {
		return err
	}
	if !bytes.Equal(originalCanonical, reparsedCanonical) {
		return fmt.Errorf("%w: %s != %s", errRoundTrip, originalCanonical, reparsedCanonical)
	}
	return nil
}
