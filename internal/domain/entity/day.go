package entity

import (
	"fmt"
	"time"
)

// Day fecha de calendario sin hora; clave de partición de todos los artefactos diarios.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf devuelve el día de calendario de t en su propia zona horaria.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay interpreta una fecha en formato YYYYMMDD o YYYY-MM-DD.
func ParseDay(s string) (Day, error) {
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return Day{}, fmt.Errorf("fecha %q inválida", s)
}

// Time medianoche del día en UTC.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays normaliza igual que time.Date (cruza meses y años).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Before(o Day) bool { return d.Time().Before(o.Time()) }

func (d Day) IsZero() bool { return d == Day{} }

// Compact formato YYYYMMDD usado en nombres de archivo.
func (d Day) Compact() string { return d.Time().Format("20060102") }

func (d Day) String() string { return d.Time().Format("2006-01-02") }

// Int YYYYMMDD como entero (columna bookingDate de ventas).
func (d Day) Int() int32 {
	return int32(d.Year*10000 + int(d.Month)*100 + d.Day)
}
