package protocol

//input structs coming in from the client.

type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional name
}

type Start struct{}

type Restart struct{}

type Open struct {
	Position int `json:"position"` // 0..15
}
