package tmdb

import (
	"fmt"
	"net/url"
	"sort"
)

// Category ключ категории выдачи.
type Category string

// Поддерживаемые категории.
const (
	CategoryMovies     Category = "movies"
	CategoryTV         Category = "tv"
	CategoryAnime      Category = "anime"
	CategoryPopular    Category = "popular"
	CategoryUpcoming   Category = "upcoming"
	CategoryTopRated   Category = "top_rated"
	CategoryNowPlaying Category = "now_playing"
)

// AnimationGenreID идентификатор жанра "Animation" в TMDB.
// Аниме в TMDB нет отдельной категорией, оно собирается через discover по жанру.
const AnimationGenreID = "16"

type categoryQuery struct {
	path   string
	params url.Values
}

var categoryQueries = map[Category]categoryQuery{
	CategoryMovies:     {path: "/movie/popular"},
	CategoryTV:         {path: "/tv/popular"},
	CategoryAnime:      {path: "/discover/movie", params: url.Values{"with_genres": {AnimationGenreID}}},
	CategoryPopular:    {path: "/movie/popular"},
	CategoryUpcoming:   {path: "/movie/upcoming"},
	CategoryTopRated:   {path: "/movie/top_rated"},
	CategoryNowPlaying: {path: "/movie/now_playing"},
}

// ParseCategory проверяет ключ категории.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryQueries[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Categories возвращает все поддерживаемые ключи в алфавитном порядке.
func Categories() []Category {
	out := make([]Category, 0, len(categoryQueries))
	for c := range categoryQueries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c Category) query(page int) (string, url.Values, error) {
	q, ok := categoryQueries[c]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}
	params := url.Values{}
	for k, v := range q.params {
		params[k] = append([]string(nil), v...)
	}
	params.Set("language", "en-US")
	params.Set("page", fmt.Sprint(page))
	return q.path, params, nil
}
