package dto

import (
	"movies-api/internal/app/service"
	"movies-api/internal/domain"
)

// FilmShortResponse is a film in a listing.
type FilmShortResponse struct {
	UUID       string   `json:"uuid"`
	Title      string   `json:"title"`
	IMDBRating *float64 `json:"imdb_rating"`
}

// GenreResponse is a genre, standalone or embedded in a film.
type GenreResponse struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PersonShortResponse is a person credited on a film.
type PersonShortResponse struct {
	UUID     string `json:"uuid"`
	FullName string `json:"full_name"`
}

// FilmResponse is the full film.
type FilmResponse struct {
	UUID        string                `json:"uuid"`
	Title       string                `json:"title"`
	IMDBRating  *float64              `json:"imdb_rating"`
	Description string                `json:"description"`
	Genres      []GenreResponse       `json:"genres"`
	Actors      []PersonShortResponse `json:"actors"`
	Writers     []PersonShortResponse `json:"writers"`
	Directors   []PersonShortResponse `json:"directors"`
}

// PersonFilmResponse lists the roles a person held in one film.
type PersonFilmResponse struct {
	UUID  string   `json:"uuid"`
	Roles []string `json:"roles"`
}

// PersonResponse is a person with their films.
type PersonResponse struct {
	UUID     string               `json:"uuid"`
	FullName string               `json:"full_name"`
	Films    []PersonFilmResponse `json:"films"`
}

// FromFilm converts domain.Film to FilmResponse.
func FromFilm(f *domain.Film) FilmResponse {
	genres := make([]GenreResponse, len(f.Genres))
	for i, g := range f.Genres {
		genres[i] = GenreResponse{UUID: g.ID, Name: g.Name}
	}

	return FilmResponse{
		UUID:        f.ID,
		Title:       f.Title,
		IMDBRating:  f.IMDBRating,
		Description: f.Description,
		Genres:      genres,
		Actors:      fromCredits(f.Actors),
		Writers:     fromCredits(f.Writers),
		Directors:   fromCredits(f.Directors),
	}
}

// FromFilms converts films to short listing entries.
func FromFilms(films []domain.Film) []FilmShortResponse {
	resp := make([]FilmShortResponse, len(films))
	for i, f := range films {
		resp[i] = FilmShortResponse{UUID: f.ID, Title: f.Title, IMDBRating: f.IMDBRating}
	}

	return resp
}

// FromGenre converts domain.Genre to GenreResponse.
func FromGenre(g *domain.Genre) GenreResponse {
	return GenreResponse{UUID: g.ID, Name: g.Name, Description: g.Description}
}

// FromGenres converts a genre listing.
func FromGenres(genres []domain.Genre) []GenreResponse {
	resp := make([]GenreResponse, len(genres))
	for i := range genres {
		resp[i] = FromGenre(&genres[i])
	}

	return resp
}

// FromPerson converts domain.Person to PersonResponse.
func FromPerson(p *domain.Person) PersonResponse {
	films := make([]PersonFilmResponse, len(p.Films))
	for i, f := range p.Films {
		roles := f.Roles
		if roles == nil {
			roles = []string{}
		}
		films[i] = PersonFilmResponse{UUID: f.ID, Roles: roles}
	}

	return PersonResponse{UUID: p.ID, FullName: p.FullName, Films: films}
}

// FromPersons converts a person listing.
func FromPersons(persons []domain.Person) []PersonResponse {
	resp := make([]PersonResponse, len(persons))
	for i := range persons {
		resp[i] = FromPerson(&persons[i])
	}

	return resp
}

func fromCredits(credits []domain.IDName) []PersonShortResponse {
	resp := make([]PersonShortResponse, len(credits))
	for i, c := range credits {
		resp[i] = PersonShortResponse{UUID: c.ID, FullName: c.Name}
	}

	return resp
}

// WarmResultResponse represents the result of refreshing one cache target.
type WarmResultResponse struct {
	Target   string `json:"target"`
	Count    int    `json:"count"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// WarmResponse represents the response of a manual cache warm-up.
type WarmResponse struct {
	Results []WarmResultResponse `json:"results"`
	Summary WarmSummary          `json:"summary"`
}

// WarmSummary holds a summary of a warm-up run.
type WarmSummary struct {
	EntitiesCached int `json:"entities_cached"`
	TargetsOK      int `json:"targets_ok"`
	TargetsFailed  int `json:"targets_failed"`
}

// FromWarmResult converts one service.WarmResult.
func FromWarmResult(r service.WarmResult) WarmResultResponse {
	resp := WarmResultResponse{
		Target:   r.Target,
		Count:    r.Count,
		Duration: r.Duration.String(),
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}

	return resp
}

// FromWarmResults converts service.WarmResult slice to WarmResponse.
func FromWarmResults(results []service.WarmResult) WarmResponse {
	resp := WarmResponse{
		Results: make([]WarmResultResponse, len(results)),
	}

	for i, r := range results {
		if r.Error != nil {
			resp.Summary.TargetsFailed++
		} else {
			resp.Summary.EntitiesCached += r.Count
			resp.Summary.TargetsOK++
		}
		resp.Results[i] = FromWarmResult(r)
	}

	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
