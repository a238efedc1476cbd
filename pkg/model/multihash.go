package model

import (
	"encoding/json"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// Multihash is a digest that encodes as a base58btc multibase string in JSON
// (and therefore in CSV event logs).
type Multihash struct {
	multihash.Multihash
}

func (mh Multihash) String() string {
	if len(mh.Multihash) == 0 {
		return ""
	}
	str, err := multibase.Encode(multibase.Base58BTC, mh.Multihash)
	if err != nil {
		return ""
	}
	return str
}

func (mh Multihash) MarshalJSON() ([]byte, error) {
	if len(mh.Multihash) == 0 {
		return json.Marshal("")
	}
	str, err := multibase.Encode(multibase.Base58BTC, mh.Multihash)
	if err != nil {
		return nil, fmt.Errorf("multibase encoding: %w", err)
	}
	return json.Marshal(str)
}

func (mh *Multihash) UnmarshalJSON(b []byte) error {
	var str string
	err := json.Unmarshal(b, &str)
	if err != nil {
		return fmt.Errorf("parsing string: %w", err)
	}
	if str == "" {
		return nil
	}
	_, bytes, err := multibase.Decode(str)
	if err != nil {
		return fmt.Errorf("multibase decoding: %w", err)
	}
	digest, err := multihash.Cast(bytes)
	if err != nil {
		return fmt.Errorf("decoding multihash: %w", err)
	}
	*mh = Multihash{digest}
	return nil
}
