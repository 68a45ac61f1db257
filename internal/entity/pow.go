package entity

// Challenge is issued by the server and scopes one registration attempt.
// It is immutable and single-use; expiry is enforced server-side.
type Challenge struct {
	Challenge  string `json:"challenge"`
	Difficulty int    `json:"difficulty"`
	Token      string `json:"token"`
}

// Solution is the first candidate in ascending nonce order whose digest
// has Difficulty leading '0' hex characters.
type Solution struct {
	Nonce  uint64
	Digest string
}
