package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

func errUnsupportedOutput(format string) error {
	return fmt.Errorf("unsupported output %q, use %s or %s", format, outputTable, outputJSON)
}

// printNavigator reports where the form would move its owner.
type printNavigator struct {
	out io.Writer
}

func (n printNavigator) Back() {
	fmt.Fprintln(n.out, "navigated back")
}

func (n printNavigator) Push(path string) {
	fmt.Fprintf(n.out, "navigated to %s\n", path)
}

type profileView struct {
	UserID            string   `json:"user_id,omitempty"`
	FullName          string   `json:"full_name"`
	Username          string   `json:"username"`
	Bio               string   `json:"bio"`
	Adopter           string   `json:"adopter"`
	Gender            string   `json:"gender"`
	Birthdate         string   `json:"birthdate"`
	Breed             string   `json:"breed"`
	AvatarURL         string   `json:"avatar_url,omitempty"`
	AgeRangeMin       int      `json:"age_range_min"`
	AgeRangeMax       int      `json:"age_range_max"`
	Distance          int      `json:"distance"`
	GenderPreference  []string `json:"gender_preference"`
	AdopterPreference string   `json:"adopter_preference"`
	BreedPreference   string   `json:"breed_preference"`
}

func viewFromProfile(p profile.Profile) profileView {
	prefs := p.Prefs()
	genders := make([]string, 0, len(prefs.GenderPreference))
	for _, g := range prefs.GenderPreference {
		genders = append(genders, string(g))
	}

	return profileView{
		UserID:            p.UserID,
		FullName:          p.FullName,
		Username:          p.Username,
		Bio:               p.Bio,
		Adopter:           string(p.Adopter),
		Gender:            string(p.Gender),
		Birthdate:         p.Birthdate,
		Breed:             p.Breed,
		AvatarURL:         p.AvatarURL,
		AgeRangeMin:       prefs.AgeRange.Min,
		AgeRangeMax:       prefs.AgeRange.Max,
		Distance:          prefs.Distance,
		GenderPreference:  genders,
		AdopterPreference: string(prefs.AdopterPreference),
		BreedPreference:   prefs.BreedPreference,
	}
}

func printProfile(w io.Writer, format string, p profile.Profile) error {
	view := viewFromProfile(p)

	if format == outputJSON {
		encoded, err := sonic.ConfigStd.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"username", view.Username},
		{"full name", view.FullName},
		{"role", view.Adopter},
		{"gender", view.Gender},
		{"birthdate", view.Birthdate},
		{"breed", view.Breed},
		{"bio", view.Bio},
		{"avatar", view.AvatarURL},
		{"age range", strconv.Itoa(view.AgeRangeMin) + "-" + strconv.Itoa(view.AgeRangeMax)},
		{"distance", strconv.Itoa(view.Distance)},
		{"gender preference", strings.Join(view.GenderPreference, ",")},
		{"adopter preference", view.AdopterPreference},
		{"breed preference", view.BreedPreference},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}
