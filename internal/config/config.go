package config

import "cigen/internal/letter"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StoreConfig selects where the saved template lives.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // file, redis or sqlite
	Path    string `mapstructure:"path"`    // file or sqlite database path
	Key     string `mapstructure:"key"`
}

// LetterConfig tunes line classification.
type LetterConfig struct {
	Markers letter.Markers `mapstructure:"markers"`
	// DisableCapsHeuristic turns off the all-caps signature-name rule.
	DisableCapsHeuristic bool `mapstructure:"disable_caps_heuristic"`
}

// LetterheadConfig is the fixed page header and footer.
type LetterheadConfig struct {
	LogoPath string   `mapstructure:"logo_path"`
	Title    string   `mapstructure:"title"`
	Subtitle string   `mapstructure:"subtitle"`
	Footer   []string `mapstructure:"footer"`
	LinkLine int      `mapstructure:"link_line"` // 1-based footer line styled as a link, 0 for none
}

// RenderConfig controls rasterization.
type RenderConfig struct {
	Format      string  `mapstructure:"format"` // png or webp
	WebPQuality int     `mapstructure:"webp_quality"`
	Width       int     `mapstructure:"width"`
	Height      int     `mapstructure:"height"`
	Scale       float64 `mapstructure:"scale"`
	Concurrency int     `mapstructure:"concurrency"`
	Timeout     string  `mapstructure:"timeout"` // duration string, per page
	ChromeBin   string  `mapstructure:"chrome_bin"`
	NoSandbox   bool    `mapstructure:"no_sandbox"`
}

// OutputConfig controls where generated bundles go.
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	ZipName string `mapstructure:"zip_name"`
	PDF     bool   `mapstructure:"pdf"`
	PDFName string `mapstructure:"pdf_name"`
}

// DatesConfig controls the date table shift.
type DatesConfig struct {
	ReferenceYear int    `mapstructure:"reference_year"` // 0 means the current year
	OutputName    string `mapstructure:"output_name"`
}

// InboxConfig controls the serve watcher.
type InboxConfig struct {
	Dir      string `mapstructure:"dir"`
	DoneDir  string `mapstructure:"done_dir"`
	Interval string `mapstructure:"interval"` // rescan interval, duration string
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Store      StoreConfig      `mapstructure:"store"`
	Letter     LetterConfig     `mapstructure:"letter"`
	Letterhead LetterheadConfig `mapstructure:"letterhead"`
	Render     RenderConfig     `mapstructure:"render"`
	Output     OutputConfig     `mapstructure:"output"`
	Dates      DatesConfig      `mapstructure:"dates"`
	Inbox      InboxConfig      `mapstructure:"inbox"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.Path == "" {
		switch c.Store.Backend {
		case "sqlite":
			c.Store.Path = "./cigen.db"
		default:
			c.Store.Path = "./letter_template.txt"
		}
	}
	if c.Store.Key == "" {
		c.Store.Key = "letterTemplate"
	}
	c.Letter.Markers = c.Letter.Markers.Merge(letter.DefaultMarkers)
	if c.Letterhead.Title == "" {
		c.Letterhead.Title = "Prefeitura do Município de Alfenas"
	}
	if c.Letterhead.Subtitle == "" {
		c.Letterhead.Subtitle = "Secretaria Municipal de Assistência Social"
	}
	if len(c.Letterhead.Footer) == 0 {
		c.Letterhead.Footer = []string{
			"Prefeitura Municipal de Alfenas",
			"www.alfenas.mg.gov.br",
			"Tel.: 3698 1300",
		}
		if c.Letterhead.LinkLine == 0 {
			c.Letterhead.LinkLine = 2
		}
	}
	if c.Render.Format == "" {
		c.Render.Format = "png"
	}
	if c.Render.WebPQuality <= 0 || c.Render.WebPQuality > 100 {
		c.Render.WebPQuality = 85
	}
	if c.Render.Width == 0 {
		c.Render.Width = 794
	}
	if c.Render.Height == 0 {
		c.Render.Height = 1123
	}
	if c.Render.Scale <= 0 {
		c.Render.Scale = 2
	}
	if c.Render.Concurrency <= 0 {
		c.Render.Concurrency = 1
	}
	if c.Render.Timeout == "" {
		c.Render.Timeout = "30s"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./out"
	}
	if c.Output.ZipName == "" {
		c.Output.ZipName = "cis-geradas.zip"
	}
	if c.Output.PDFName == "" {
		c.Output.PDFName = "cis-geradas.pdf"
	}
	if c.Dates.OutputName == "" {
		c.Dates.OutputName = "datas_atualizadas.xlsx"
	}
	if c.Inbox.Dir == "" {
		c.Inbox.Dir = "./inbox"
	}
	if c.Inbox.DoneDir == "" {
		c.Inbox.DoneDir = "./inbox/done"
	}
	if c.Inbox.Interval == "" {
		c.Inbox.Interval = "1m"
	}
}
