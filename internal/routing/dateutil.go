package routing

import "time"

func dateToTime(d Date) time.Time {
	y := int(d) / 10000
	m := (int(d) / 100) % 100
	day := int(d) % 100
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

func timeToDate(t time.Time) Date {
	return Date(t.Year()*10000 + int(t.Month())*100 + t.Day())
}
