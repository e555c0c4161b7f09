package password

import (
	"os"
	"strconv"
)

type Params struct {
	Memory      uint32 // kibibytes
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func envUint32(key string, def uint32) uint32 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return def
}

func envUint8(key string, def uint8) uint8 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			return uint8(n)
		}
	}
	return def
}

// LoadParamsFromEnv returns the hashing policy. Defaults are ~64MB, t=3;
// tune via env without code changes.
func LoadParamsFromEnv() Params {
	return Params{
		Memory:      envUint32("ARGON2_MEMORY", 65536), // 64 MiB
		Iterations:  envUint32("ARGON2_ITER", 3),
		Parallelism: envUint8("ARGON2_PAR", 2),
		SaltLength:  16,
		KeyLength:   32,
	}
}
