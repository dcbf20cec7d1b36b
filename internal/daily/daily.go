// internal/daily/daily.go
//
// Level-of-the-day selection. Every player gets the same level on a given UTC
// date; the choice is HMAC(salt, YYYY-MM-DD) modulo the number of levels.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/rightsquest/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// LevelIndex returns a deterministic index for a date in [0, n).
func LevelIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the level of the day from lv. ok is false when lv is empty.
func Pick(lv []game.Level, date time.Time, salt string) (level game.Level, ok bool) {
	if len(lv) == 0 {
		return game.Level{}, false
	}
	return lv[LevelIndex(date, salt, len(lv))], true
}
