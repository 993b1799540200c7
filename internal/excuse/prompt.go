// Package excuse composes the generation prompt and talks to the
// generative-text providers.
package excuse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relam-bot/Useless-Project-2.0/internal/models"
)

// BuildPrompt renders the gathered context into the single text block sent
// to the generator. Missing numeric weather values are rendered as N/A so a
// partial snapshot still produces a usable prompt.
func BuildPrompt(loc models.Location, weather models.WeatherSnapshot, timeInfo models.TimeContext, headlines []models.NewsItem, transit models.TransitStatus, role string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a witty personal assistant. Generate a short, casual, believable excuse for being late as a %s based on this info:\n\n", role)
	fmt.Fprintf(&b, "Location: %s, %s, %s\n", loc.City, loc.Region, loc.Country)
	fmt.Fprintf(&b, "Weather: %s, Temp: %s°C, Humidity: %s%%, Wind: %s kph\n",
		weather.Condition, floatOrNA(weather.TemperatureC), intOrNA(weather.Humidity), floatOrNA(weather.WindKph))
	fmt.Fprintf(&b, "Time: %s, %s (Hour: %d)\n", timeInfo.Weekday, timeInfo.TimePeriod, timeInfo.Hour)
	fmt.Fprintf(&b, "Public transport status: %s. Note: %s\n", transit.Status, transit.Note)
	b.WriteString("Recent news headlines:\n")
	for i, item := range headlines {
		fmt.Fprintf(&b, "%d. %s (Source: %s)\n", i+1, item.Title, item.Source)
	}
	fmt.Fprintf(&b, "\nMake the excuse fit your role as a %s and draw on the news, time, and weather above where they apply. Keep it human.\nExcuse:\n", role)

	return b.String()
}

func floatOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}
