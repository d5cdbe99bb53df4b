package store

import "testing"

func FuzzDecodeProfile(f *testing.F) {
	f.Add(`{"id":"u1","name":"Alice","email":"a@example.com"}`)
	f.Add(`{"id":"u1","role":{"id":"r1","name":"admin"}}`)
	f.Add(`{}`)
	f.Add(`null`)
	f.Add(`"string"`)
	f.Add(`{not json`)
	f.Add(``)
	f.Add(`{"id":123}`)
	f.Add(`{"id":"u1","permissions":["a","b"]}`)

	f.Fuzz(func(t *testing.T, raw string) {
		u := decodeProfile(raw)
		if u == nil {
			return
		}
		// Whatever came back must be a usable profile, never a
		// half-decoded one.
		if u.ID == "" {
			t.Fatalf("decodeProfile returned a profile without an ID from %q", raw)
		}
		clone := u.Clone()
		if clone == u {
			t.Fatal("Clone returned the receiver")
		}
		if clone.ID != u.ID {
			t.Fatal("Clone lost the ID")
		}
	})
}
