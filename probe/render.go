package probe

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vainnor/airlab-probe/types"
)

const ruleWidth = 60

// Console writes the human readable report. Styling degrades to plain text
// when the writer is not a terminal.
type Console struct {
	w       io.Writer
	ok      lipgloss.Style
	fail    lipgloss.Style
	warn    lipgloss.Style
	heading lipgloss.Style
}

func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:       w,
		ok:      r.NewStyle().Foreground(lipgloss.Color("10")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("9")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")),
		heading: r.NewStyle().Bold(true),
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

func (c *Console) Banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	c.printf("%s\n%s\n%s\n", rule, c.heading.Render(title), rule)
}

func (c *Console) Footer() {
	c.printf("\n%s\n", strings.Repeat("=", ruleWidth))
}

func (c *Console) Section(title string) {
	c.printf("\n%s\n", c.heading.Render(title))
}

func (c *Console) Rule() {
	c.printf("%s\n", strings.Repeat("-", ruleWidth))
}

func (c *Console) Success(format string, args ...any) {
	c.printf("%s %s\n", c.ok.Render("✓"), fmt.Sprintf(format, args...))
}

func (c *Console) Failure(format string, args ...any) {
	c.printf("%s %s\n", c.fail.Render("✗"), fmt.Sprintf(format, args...))
}

// TokenPreview shows the first 20 characters of a token.
func TokenPreview(token string) string {
	const n = 20
	if r := []rune(token); len(r) > n {
		token = string(r[:n])
	}
	return token + "..."
}

// RenderPage prints the page header and every flight in server order.
func (c *Console) RenderPage(page *types.FlightsPage) {
	c.printf("\n")
	c.Success("Number of flights: %d", page.Total)
	c.printf("Page: %d/%d\n", page.Page, page.TotalPages)

	if len(page.Flights) == 0 {
		c.printf("\n%s No flights found\n", c.warn.Render("⚠"))
		return
	}

	c.printf("\nDetails of the first %d flights:\n\n", len(page.Flights))
	for i, flight := range page.Flights {
		c.RenderFlight(i+1, flight)
	}
}

// RenderFlight prints one numbered flight block followed by a blank line.
func (c *Console) RenderFlight(n int, f types.FlightRecord) {
	missing, null := types.PlaceholderMissing, types.PlaceholderNull

	c.printf("FLIGHT #%d\n", n)
	c.printf("  ICAO24: %s\n", f.Field("icao24", missing))
	c.printf("  Callsign: %s\n", f.Field("callsign", missing))
	c.printf("  Type: %s\n", f.Field("aircraft_type", missing))
	c.printf("  Status: %s\n", f.Field("status", missing))
	c.printf("  GPS Coordinates:\n")
	c.printf("    Latitude: %s\n", f.Field("latitude", null))
	c.printf("    Longitude: %s\n", f.Field("longitude", null))
	c.printf("    Altitude: %s m\n", f.Field("altitude", null))
	c.printf("  Navigation:\n")
	c.printf("    Heading: %s°\n", f.Field("heading", null))
	c.printf("    Speed: %s m/s\n", f.Field("speed", null))
	c.printf("  Origin: %s\n", f.Field("origin", missing))
	c.printf("  Destination: %s\n", f.Field("destination", missing))
	c.printf("  Assigned stand: %s\n", f.Field("assigned_poste_code", types.PlaceholderUnparked))
	c.printf("\n")
}
