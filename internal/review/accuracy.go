package review

// RollingAccuracy averages accuracy over the most recent study sessions.
// logs must be ordered most recent first; at most window entries are
// considered (window <= 0 means all). It returns the average and the
// number of sessions it covers, or AccuracyUnknown and 0 when there are no
// logs.
func RollingAccuracy(logs []SessionLog, window int) (float64, int) {
	if len(logs) == 0 {
		return AccuracyUnknown, 0
	}
	if window > 0 && len(logs) > window {
		logs = logs[:window]
	}

	var sum float64
	for _, log := range logs {
		sum += log.AccuracyPercent
	}
	return sum / float64(len(logs)), len(logs)
}
