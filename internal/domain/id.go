package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// tempPrefix marks ids assigned locally while a create is in flight.
const tempPrefix = "temp_"

// ID identifies a cached entity. It holds either a server-assigned integer
// or a temporary string id of the form temp_<unix-millis>. The zero value is
// not a valid id. ID is comparable and can be used as a map key.
type ID struct {
	num  int64
	temp string
}

// IntID returns a server-assigned id.
func IntID(n int64) ID {
	return ID{num: n}
}

var (
	tempMu   sync.Mutex
	lastTemp int64
)

// NewTempID returns a fresh temporary id. Ids are strictly increasing within
// the process even when two are requested in the same millisecond.
func NewTempID() ID {
	tempMu.Lock()
	defer tempMu.Unlock()
	stamp := time.Now().UnixMilli()
	if stamp <= lastTemp {
		stamp = lastTemp + 1
	}
	lastTemp = stamp
	return ID{temp: tempPrefix + strconv.FormatInt(stamp, 10)}
}

// ParseID parses "42" into an integer id and "temp_..." into a temporary id.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, tempPrefix) && len(s) > len(tempPrefix) {
		return ID{temp: s}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return IntID(n), nil
}

// IsTemp reports whether the id is a local placeholder.
func (id ID) IsTemp() bool {
	return id.temp != ""
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id.num == 0 && id.temp == ""
}

// Int returns the integer value and whether the id is server-assigned.
func (id ID) Int() (int64, bool) {
	if id.IsTemp() || id.num == 0 {
		return 0, false
	}
	return id.num, true
}

func (id ID) String() string {
	if id.IsTemp() {
		return id.temp
	}
	return strconv.FormatInt(id.num, 10)
}

// MarshalJSON encodes integer ids as numbers and temporary ids as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsTemp() {
		return json.Marshal(id.temp)
	}
	return []byte(strconv.FormatInt(id.num, 10)), nil
}

// UnmarshalJSON accepts a number, a numeric string or a temp_ string.
func (id *ID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = IntID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, string(data))
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Entity is any record held by the cache.
type Entity interface {
	Key() ID
}
