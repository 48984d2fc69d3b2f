// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package mongodb

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Documents written by coursehub store ids as ULID strings. Documents from
// the legacy collections carry ObjectIDs, which map to ULIDs whose first four
// bytes are zero and whose last twelve are the ObjectID. No generated ULID
// has that shape: its timestamp would fall in the first minute of 1970.

// idValue returns the stored form of id.
func idValue(id ulid.ULID) any {
	if !isLegacyID(id) {
		return id.String()
	}
	var oid bson.ObjectID
	copy(oid[:], id[4:])
	return oid
}

func idValues(ids []ulid.ULID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = idValue(id)
	}
	return out
}

// parseID converts a stored id back into a ULID.
func parseID(v any) (ulid.ULID, error) {
	switch t := v.(type) {
	case string:
		id, err := ulid.Parse(t)
		if err != nil {
			return ulid.ULID{}, oops.In("mongodb").With("id", t).Wrap(err)
		}
		return id, nil
	case bson.ObjectID:
		var id ulid.ULID
		copy(id[4:], t[:])
		return id, nil
	default:
		return ulid.ULID{}, oops.In("mongodb").With("id", v).Errorf("unsupported id type %T", v)
	}
}

func isLegacyID(id ulid.ULID) bool {
	return id[0] == 0 && id[1] == 0 && id[2] == 0 && id[3] == 0
}
