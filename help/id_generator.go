package help

import "strconv"

// Utility functions for uint64 and string conversion, kept from the
// teacher's id_generator.go; the Snowflake-style generator and the
// game-entity ID-prefix helpers built on top of it were dropped in favor
// of github.com/google/uuid (see actor.NewActorID). Uint64ToString and
// Int64ToString are used by observability.NSQUI to render cycle counts
// and elapsed-nanosecond fields as structpb string values.

func Uint64ToString(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func StringToUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func Int64ToString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func StringToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// Uint64ToInt64 converts id into the int64 range, wrapping values above
// math.MaxInt64 the same way the teacher's generator did when a
// Snowflake ID's top bit was set.
func Uint64ToInt64(id uint64) int64 {
	if id > 9223372036854775807 {
		return int64(id - 9223372036854775808)
	}
	return int64(id)
}
