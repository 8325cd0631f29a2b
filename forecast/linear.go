package forecast

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"estatewatch/models"
)

// intervalZ is the normal quantile for a 95% interval, the width the
// dashboard shades around the forecast line.
const intervalZ = 1.96

// LinearForecaster is the default model: ordinary least squares on the day
// index with a residual-based constant-width interval. It deliberately
// stays simple; the synthetic input series is itself linear-plus-noise.
type LinearForecaster struct{}

func NewLinearForecaster() *LinearForecaster {
	return &LinearForecaster{}
}

func (f *LinearForecaster) FitPredict(series []models.SeriesPoint, horizonDays int) ([]Prediction, error) {
	if len(series) < 2 {
		return nil, errors.New("forecast: series too short to fit")
	}
	if horizonDays <= 0 {
		return nil, errors.New("forecast: horizon must be positive")
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	residuals := make([]float64, len(series))
	for i := range xs {
		residuals[i] = ys[i] - (alpha + beta*xs[i])
	}
	sigma := stat.StdDev(residuals, nil)
	half := intervalZ * sigma

	last := series[len(series)-1].Date
	out := make([]Prediction, 0, horizonDays)
	for d := 1; d <= horizonDays; d++ {
		x := float64(len(series) - 1 + d)
		yhat := alpha + beta*x
		out = append(out, Prediction{
			Date:      last.AddDate(0, 0, d),
			Yhat:      yhat,
			YhatLower: yhat - half,
			YhatUpper: yhat + half,
		})
	}

	return out, nil
}
