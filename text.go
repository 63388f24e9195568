package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Tushar-Jain07/portfolio/internal/content"
	"github.com/Tushar-Jain07/portfolio/internal/theme"
)

// cardTechnologies is how many technologies a project card lists.
const cardTechnologies = 3

type projectCard struct {
	Title        string
	Description  string
	URL          string
	Image        string
	Technologies []string
}

func projectCards(site *content.Site) []projectCard {
	cards := make([]projectCard, len(site.Projects))
	for i, p := range site.Projects {
		cards[i] = projectCard{
			Title:        p.Title,
			Description:  p.Description,
			URL:          p.URL,
			Image:        p.Image,
			Technologies: p.TopTechnologies(cardTechnologies),
		}
	}
	return cards
}

// pageData is the view model for index.html.
func pageData(site *content.Site, t theme.Theme) gin.H {
	return gin.H{
		"site":       site,
		"theme":      t.String(),
		"themeColor": t.Color(),
		"dark":       t == theme.Dark,
		"skills":     site.Skills,
		"projects":   projectCards(site),
		"contact":    site.Contact,
	}
}
