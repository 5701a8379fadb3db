package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSequence = "mars/sequence/v1"
	DomainShape    = "mars/shape/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SequenceIR converts commands into an IRArray of wire objects.
func SequenceIR(cmds []Command) IRArray {
	arr := make(IRArray, len(cmds))
	for i, c := range cmds {
		arr[i] = c.ToIR()
	}
	return arr
}

// MarshalSequence returns the canonical JSON of a command list.
func MarshalSequence(cmds []Command) ([]byte, error) {
	return MarshalCanonical(SequenceIR(cmds))
}

// SequenceID computes the content-addressed ID of a compiled sequence.
// Two compilations of the same input differ by their tracker uids, so they
// get different IDs; use ShapeHash to compare structure.
func SequenceID(cmds []Command) (string, error) {
	canonical, err := MarshalSequence(cmds)
	if err != nil {
		return "", fmt.Errorf("SequenceID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSequence, canonical), nil
}

// ShapeHash hashes a sequence with every tracker uid replaced by an ordinal
// placeholder ("$uid0", "$uid1", ...) in order of first appearance.
// Compiling the same input twice yields the same ShapeHash.
func ShapeHash(cmds []Command) (string, error) {
	canonical, err := MarshalSequence(MaskUIDs(cmds))
	if err != nil {
		return "", fmt.Errorf("ShapeHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainShape, canonical), nil
}

// MaskUIDs returns a copy of cmds with tracker and wait uids replaced by
// ordinal placeholders. Pairing is preserved: a wait gets the placeholder of
// its tracker.
func MaskUIDs(cmds []Command) []Command {
	names := make(map[string]string)
	placeholder := func(uid string) string {
		if p, ok := names[uid]; ok {
			return p
		}
		p := fmt.Sprintf("$uid%d", len(names))
		names[uid] = p
		return p
	}

	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = c
		if uid, ok := c.TrackerUID(); ok {
			req := c.Definition.(ProxyRequest)
			req.Body = withTrackerUID(req.Body, placeholder(uid))
			out[i].Definition = req
			continue
		}
		if uid, ok := c.WaitUID(); ok {
			out[i].Definition = Wait{UID: placeholder(uid)}
		}
	}
	return out
}

// withTrackerUID copies the tracker body path setting.settings and swaps the uid.
func withTrackerUID(body IRObject, uid string) IRObject {
	setting, _ := body["setting"].(IRObject)
	settings, _ := setting["settings"].(IRObject)

	newSettings := make(IRObject, len(settings))
	for k, v := range settings {
		newSettings[k] = v
	}
	newSettings["uid"] = IRString(uid)

	newSetting := make(IRObject, len(setting))
	for k, v := range setting {
		newSetting[k] = v
	}
	newSetting["settings"] = newSettings

	newBody := make(IRObject, len(body))
	for k, v := range body {
		newBody[k] = v
	}
	newBody["setting"] = newSetting
	return newBody
}

// MustSequenceID is like SequenceID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSequenceID(cmds []Command) string {
	id, err := SequenceID(cmds)
	if err != nil {
		panic(err)
	}
	return id
}
