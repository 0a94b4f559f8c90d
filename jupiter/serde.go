package jupiter

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Uint64String is a uint64 that travels as a decimal JSON string.
// Jupiter encodes every raw token amount this way so that values above
// 2^53 survive JavaScript consumers without precision loss.
type Uint64String uint64

func (u Uint64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

func (u *Uint64String) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a string: %w", err)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 amount %q: %w", s, err)
	}
	*u = Uint64String(n)
	return nil
}

func (u Uint64String) Uint64() uint64 {
	return uint64(u)
}

func (u Uint64String) String() string {
	return strconv.FormatUint(uint64(u), 10)
}
