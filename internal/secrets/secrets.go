// Package secrets resolves the credentials notedrop needs to talk to the two
// remote APIs: the Notion integration token, the target database id, and the
// Imgur client id.
//
// Lookup and acquisition are deliberately separate. Resolve is a pure,
// non-blocking read (environment first, then the local vault); it never
// prompts. Acquire is the explicit flow a caller runs when lookup misses,
// and it is coalesced so concurrent misses produce at most one prompt.
package secrets

import "errors"

// Names of the three secrets. These double as the vault account keys.
const (
	NotionToken      = "notion-token"
	NotionDatabaseID = "notion-database-id"
	ImgurClientID    = "imgur-client-id"
)

// Names lists every secret the pipeline requires, in display order.
var Names = []string{NotionToken, NotionDatabaseID, ImgurClientID}

// envOverrides maps secret names to the environment variables that take
// precedence over the vault.
var envOverrides = map[string]string{
	NotionToken:      "NOTEDROP_NOTION_TOKEN",
	NotionDatabaseID: "NOTEDROP_NOTION_DATABASE_ID",
	ImgurClientID:    "NOTEDROP_IMGUR_CLIENT_ID",
}

// ErrUnknownSecret is returned for names outside the fixed set above.
var ErrUnknownSecret = errors.New("unknown secret")
