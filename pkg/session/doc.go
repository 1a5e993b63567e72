// Package session persists the API base URL, bearer token and logged-in user
// for the NDGM RFID client.
//
// Values live in any key-value backend that satisfies Store; the bbolt and
// in-memory backends in internal/storage are the ones the CLI uses. The three
// entries are written independently, so a crash between writes can leave a
// token without a user or the reverse.
package session
