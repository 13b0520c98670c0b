// Package global_co2 keeps a local copy of the daily atmospheric CO2 concentration
// published by the NOAA based RapidAPI feed.
package global_co2

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PublishingDelayDays is how far behind today the feed's newest point is.
const PublishingDelayDays = 2

var ErrNoData = errors.New("no global CO2 data")

// Level is the concentration (ppm) of one day: Cycle is the measured value, Trend the
// seasonally adjusted one.
type Level struct {
	Date  time.Time
	Trend decimal.Decimal
	Cycle decimal.Decimal
}
