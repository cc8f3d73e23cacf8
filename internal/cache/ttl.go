package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL se aplica cuando la configuración no define un TTL.
const DefaultTTL = 300 * time.Second

// ParseTTL interpreta una duración de configuración. Una cadena vacía
// produce DefaultTTL; dígitos sueltos son segundos; un sufijo de unidad
// multiplica: s, m (minutos), h, d, M (meses aprox. 30d), y/Y (años
// aprox. 365d). Un sufijo desconocido es un error de configuración.
func ParseTTL(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTTL, nil
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("ttl %q: negative value", raw)
		}
		return time.Duration(n) * time.Second, nil
	}

	unit := raw[len(raw)-1:]
	n, err := strconv.ParseInt(raw[:len(raw)-1], 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("ttl %q: invalid number", raw)
	}

	var scale time.Duration
	switch unit {
	case "s":
		scale = time.Second
	case "m":
		scale = time.Minute
	case "h":
		scale = time.Hour
	case "d":
		scale = 24 * time.Hour
	case "M":
		scale = 30 * 24 * time.Hour
	case "y", "Y":
		scale = 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("ttl %q: unknown unit %q", raw, unit)
	}
	return time.Duration(n) * scale, nil
}
