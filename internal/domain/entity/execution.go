package entity

import "time"

// ExecutionRecord una ejecución exitosa del snapshot diario de un cliente.
// Como mucho uno por (cliente, día); gana el timestamp mayor.
type ExecutionRecord struct {
	CustomerID string
	Year       int
	Month      time.Month
	Day        int
	ExecutedAt time.Time
}

// NewExecutionRecord deriva año, mes y día del timestamp.
func NewExecutionRecord(customerID string, at time.Time) ExecutionRecord {
	d := DayOf(at)
	return ExecutionRecord{CustomerID: customerID, Year: d.Year, Month: d.Month, Day: d.Day, ExecutedAt: at}
}

// CalendarDay clave de deduplicación del registro.
func (r ExecutionRecord) CalendarDay() Day {
	return Day{Year: r.Year, Month: r.Month, Day: r.Day}
}
