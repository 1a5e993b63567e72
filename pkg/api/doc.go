// Package api is the client for the NDGM RFID REST API.
//
// A Client combines a session.Session (base URL, bearer token, stored user)
// with an HTTP transport. Request and the verb helpers return the decoded
// JSON body as generic values and treat unparseable bodies as nil; Do and
// the resource methods (Login, Register, Scan, GetLogs, GetUsers) decode
// into typed structs and report malformed bodies as KindDecode errors.
//
// Non-2xx responses are returned as *Error with Kind KindHTTP, carrying the
// server's "error" message when present. Transport failures, including
// context cancellation, are *Error values of Kind KindNetwork that unwrap to
// the original cause.
package api
