package domain

// Genre is a film category. It is immutable on the read path.
type Genre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PersonFilm lists the roles a person held in one film.
type PersonFilm struct {
	ID    string   `json:"id"` // film id
	Roles []string `json:"roles"`
}

// Person is a contributor (actor, writer, director) as stored in the persons index.
type Person struct {
	ID       string       `json:"id"`
	FullName string       `json:"full_name"`
	Films    []PersonFilm `json:"films"`
}

// FilmIDs returns the ids of the person's films in document order, without duplicates.
func (p *Person) FilmIDs() []string {
	if len(p.Films) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(p.Films))
	ids := make([]string, 0, len(p.Films))
	for _, f := range p.Films {
		if f.ID == "" {
			continue
		}
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}
		ids = append(ids, f.ID)
	}

	return ids
}
