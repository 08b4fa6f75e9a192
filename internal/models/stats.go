package models

// UserStatistics is the cross-day statistics blob. GuessDistribution[i] for
// i < maxGuesses counts wins in i+1 guesses; the last slot counts losses.
type UserStatistics struct {
	GamesPlayed       int   `json:"gamesPlayed"`
	GamesWon          int   `json:"gamesWon"`
	CurrentStreak     int   `json:"currentStreak"`
	MaxStreak         int   `json:"maxStreak"`
	LastPlayedIndex   int   `json:"lastPlayedIndex"`
	GuessDistribution []int `json:"guessDistribution"`
}

// NewUserStatistics returns empty statistics with the given distribution
// slot count.
func NewUserStatistics(slots int) UserStatistics {
	return UserStatistics{GuessDistribution: make([]int, max(slots, 0))}
}

// PadDistribution grows GuessDistribution with zero slots up to n. Longer
// distributions are left untouched.
func (s *UserStatistics) PadDistribution(n int) {
	for len(s.GuessDistribution) < n {
		s.GuessDistribution = append(s.GuessDistribution, 0)
	}
}

// WinRate returns the share of games won as a whole percentage.
func (s UserStatistics) WinRate() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.GamesWon * 100 / s.GamesPlayed
}
