package forecast

import (
	"time"

	"estatewatch/models"
)

// Prediction is one forecasted point with its interval bounds.
type Prediction struct {
	Date      time.Time
	Yhat      float64
	YhatLower float64
	YhatUpper float64
}

// Forecaster fits a daily price series and projects it horizonDays past
// the last observation, one prediction per future day in date order.
// Implementations are treated as opaque models by the summarizer.
type Forecaster interface {
	FitPredict(series []models.SeriesPoint, horizonDays int) ([]Prediction, error)
}
