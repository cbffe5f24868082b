package common

// AuthHeaderName is the HTTP header used to carry the access token on
// inbound requests.
const AuthHeaderName = "Authorization"

// AuthSchemePrefix is the expected prefix of the auth header value.
const AuthSchemePrefix = "Bearer "
