package timeseries

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return d
}

func obs(date string, amount string) Observation {
	return Observation{Date: day(date), AmountKg: decimal.RequireFromString(amount)}
}

func assertTotals(t *testing.T, expected []DailyTotal, actual []DailyTotal) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].Date, actual[i].Date, "date at %d", i)
		assert.Truef(t, expected[i].TotalKg.Equal(actual[i].TotalKg),
			"total at %d: expected %s, got %s", i, expected[i].TotalKg, actual[i].TotalKg)
	}
}

func TestAggregate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    []Observation
		expected []DailyTotal
	}{
		{
			name:  "should fill the gap between two observed days",
			input: []Observation{obs("2024-01-01", "5.0"), obs("2024-01-03", "2.0")},
			expected: []DailyTotal{
				{Date: day("2024-01-01"), TotalKg: decimal.RequireFromString("5.0")},
				{Date: day("2024-01-02"), TotalKg: decimal.Zero},
				{Date: day("2024-01-03"), TotalKg: decimal.RequireFromString("2.0")},
			},
		},
		{
			name:  "should sum observations of the same day",
			input: []Observation{obs("2024-02-10", "1.5"), obs("2024-02-10", "2.5")},
			expected: []DailyTotal{
				{Date: day("2024-02-10"), TotalKg: decimal.RequireFromString("4.0")},
			},
		},
		{
			name:  "should keep a single zero observation",
			input: []Observation{obs("2024-03-05", "0.0")},
			expected: []DailyTotal{
				{Date: day("2024-03-05"), TotalKg: decimal.Zero},
			},
		},
		{
			name:  "should sort unordered input and pass negative amounts through",
			input: []Observation{obs("2024-04-03", "-1.5"), obs("2024-04-01", "3"), obs("2024-04-03", "2")},
			expected: []DailyTotal{
				{Date: day("2024-04-01"), TotalKg: decimal.RequireFromString("3")},
				{Date: day("2024-04-02"), TotalKg: decimal.Zero},
				{Date: day("2024-04-03"), TotalKg: decimal.RequireFromString("0.5")},
			},
		},
		{
			name:  "should cross month and leap day boundaries",
			input: []Observation{obs("2024-02-28", "1"), obs("2024-03-01", "1")},
			expected: []DailyTotal{
				{Date: day("2024-02-28"), TotalKg: decimal.NewFromInt(1)},
				{Date: day("2024-02-29"), TotalKg: decimal.Zero},
				{Date: day("2024-03-01"), TotalKg: decimal.NewFromInt(1)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.input)

			require.NoError(t, err)
			assertTotals(t, tt.expected, got)
		})
	}
}

func TestAggregate_InvalidInput(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Aggregate(nil)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = Aggregate([]Observation{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero date", func(t *testing.T) {
		_, err := Aggregate([]Observation{{AmountKg: decimal.NewFromInt(1)}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("date with time of day", func(t *testing.T) {
		_, err := Aggregate([]Observation{
			obs("2024-01-01", "1"),
			{Date: time.Date(2024, 1, 2, 13, 30, 0, 0, time.UTC), AmountKg: decimal.NewFromInt(1)},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAggregate_KeepsWallClockDate(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	got, err := Aggregate([]Observation{
		{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, warsaw), AmountKg: decimal.NewFromInt(2)},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day("2024-06-01"), got[0].Date)
}

func randomObservations(r *rand.Rand, n int) []Observation {
	base := day("2023-12-20")
	result := make([]Observation, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, Observation{
			Date:     base.AddDate(0, 0, r.Intn(40)),
			AmountKg: decimal.New(int64(r.Intn(100000)), -3),
		})
	}
	return result
}

func TestAggregate_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		input := randomObservations(r, 1+r.Intn(60))

		got, err := Aggregate(input)
		require.NoError(t, err)

		minDate, maxDate := input[0].Date, input[0].Date
		sumIn := decimal.Zero
		observed := map[time.Time]bool{}
		for _, o := range input {
			if o.Date.Before(minDate) {
				minDate = o.Date
			}
			if o.Date.After(maxDate) {
				maxDate = o.Date
			}
			sumIn = sumIn.Add(o.AmountKg)
			observed[o.Date] = true
		}

		// completeness
		assert.Equal(t, int(maxDate.Sub(minDate).Hours()/24)+1, len(got))
		assert.Equal(t, minDate, got[0].Date)
		assert.Equal(t, maxDate, got[len(got)-1].Date)

		sumOut := decimal.Zero
		for i, total := range got {
			sumOut = sumOut.Add(total.TotalKg)
			// no gaps
			if i > 0 {
				assert.Equal(t, got[i-1].Date.AddDate(0, 0, 1), total.Date)
			}
			// zero-fill
			if !observed[total.Date] {
				assert.True(t, total.TotalKg.IsZero())
			}
		}
		// conservation
		assert.True(t, sumIn.Equal(sumOut), "expected %s, got %s", sumIn, sumOut)

		// determinism
		shuffled := append([]Observation(nil), input...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		again, err := Aggregate(shuffled)
		require.NoError(t, err)
		assertTotals(t, got, again)
	}
}

func TestSeries(t *testing.T) {
	totals, err := Aggregate([]Observation{obs("2024-01-01", "5.0"), obs("2024-01-03", "2.0")})
	require.NoError(t, err)

	series := Series(totals)

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, series.Dates)
	require.Len(t, series.Values, 3)
	assert.Equal(t, "5", series.Values[0].String())
	assert.Equal(t, "0", series.Values[1].String())
	assert.Equal(t, "2", series.Values[2].String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-02-30")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
