package footballdata

const sourceName = "footballdata"

type matchesResponse struct {
	Matches []matchResponse `json:"matches"`
}

type matchResponse struct {
	ID       int           `json:"id"`
	UTCDate  string        `json:"utcDate"`
	Status   string        `json:"status"`
	Matchday int           `json:"matchday"`
	HomeTeam teamResponse  `json:"homeTeam"`
	AwayTeam teamResponse  `json:"awayTeam"`
	Score    scoreResponse `json:"score"`
}

type teamResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
}

type scoreResponse struct {
	Winner   string        `json:"winner"`
	FullTime goalsResponse `json:"fullTime"`
}

type goalsResponse struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
