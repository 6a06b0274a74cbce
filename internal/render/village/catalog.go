package village

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/render/seed"
)

//go:embed characters.yaml
var charactersYAML []byte

//go:embed quotes.yaml
var quotesYAML []byte

// Character is a fixed catalog entry: a pixel sprite plus the catchphrase
// appended to every quote the character speaks.
type Character struct {
	ID            string   `yaml:"id"`
	CatchphraseKo string   `yaml:"catchphrase_ko"`
	CatchphraseEn string   `yaml:"catchphrase_en"`
	Shade         string   `yaml:"shade"`
	Sprite        []string `yaml:"sprite"`
}

// Catchphrase returns the language-appropriate catchphrase.
func (c Character) Catchphrase(lang domain.Lang) string {
	if lang == domain.LangEn {
		return c.CatchphraseEn
	}
	return c.CatchphraseKo
}

type characterFile struct {
	Characters []Character `yaml:"characters"`
}

type quoteFile struct {
	DevKo  []string `yaml:"dev_ko"`
	DevEn  []string `yaml:"dev_en"`
	LifeKo []string `yaml:"life_ko"`
	LifeEn []string `yaml:"life_en"`
}

var (
	catalog  []Character
	quotesKo []string
	quotesEn []string
)

func init() {
	var cf characterFile
	if err := yaml.Unmarshal(charactersYAML, &cf); err != nil {
		panic(fmt.Sprintf("village: invalid character catalog: %v", err))
	}
	catalog = cf.Characters

	var qf quoteFile
	if err := yaml.Unmarshal(quotesYAML, &qf); err != nil {
		panic(fmt.Sprintf("village: invalid quote pools: %v", err))
	}
	quotesKo = append(append([]string{}, qf.DevKo...), qf.LifeKo...)
	quotesEn = append(append([]string{}, qf.DevEn...), qf.LifeEn...)
}

// Catalog returns the fixed character catalog in declaration order.
func Catalog() []Character {
	return catalog
}

// QuotePoolSize is the number of quotes a character can draw from.
func QuotePoolSize() int {
	return len(quotesKo)
}

// QuoteByIndex returns the quote at index modulo pool size in the selected
// language.
func QuoteByIndex(index int, lang domain.Lang) string {
	pool := quotesKo
	if lang == domain.LangEn {
		pool = quotesEn
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[index%len(pool)]
}

// SelectForUser picks count characters for a username. The pick is a seeded
// shuffle of the catalog, so the same username always meets the same
// villagers; when count exceeds the catalog the selection wraps around.
func SelectForUser(username string, count int) []Character {
	if count <= 0 || len(catalog) == 0 {
		return nil
	}

	shuffled := make([]Character, len(catalog))
	copy(shuffled, catalog)
	rng := seed.New(username + "_select")
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	selected := make([]Character, count)
	for i := range selected {
		selected[i] = shuffled[i%len(shuffled)]
	}
	return selected
}
