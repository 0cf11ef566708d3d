package graph

import "strings"

const keySeparator = ":"

// Key derives the node identity key for a kind and its natural identifiers.
// Each kind owns its own prefix, so keys of different kinds never collide.
// Parts are joined unescaped: only the last part may contain ":" without
// two different part lists producing the same key.
func Key(kind NodeKind, parts ...string) string {
	return string(kind) + keySeparator + strings.Join(parts, keySeparator)
}

// UserKey returns the key of the user who authored posts as author
func UserKey(author string) string {
	return Key(KindUser, author)
}

// PostKey returns the key of a post by its platform post id
func PostKey(postID string) string {
	return Key(KindPost, postID)
}

// PlatformKey returns the key of a platform by name
func PlatformKey(platform string) string {
	return Key(KindPlatform, platform)
}

// EntityKey returns the key of a named entity; label goes first so
// "Jakarta" as GPE and as ORG stay distinct nodes. The label must not
// contain ":" (ValidateBatch enforces this on ingestion).
func EntityKey(label, text string) string {
	return Key(KindEntity, label, text)
}

// KindOf returns the kind encoded in a key's prefix, or "" if the prefix is unknown
func KindOf(key string) NodeKind {
	prefix, _, ok := strings.Cut(key, keySeparator)
	if !ok {
		return ""
	}
	kind := NodeKind(prefix)
	if !kind.Valid() {
		return ""
	}
	return kind
}
