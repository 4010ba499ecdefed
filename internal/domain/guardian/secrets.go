package guardian

import "regexp"

// SecretFinding is a credential literal spotted in a bundled file.
type SecretFinding struct {
	File    string `json:"file" yaml:"file"`
	Title   string `json:"title" yaml:"title"`
	Excerpt string `json:"excerpt" yaml:"excerpt"`
}

type detector struct {
	re    *regexp.Regexp
	title string
}

var detectors = []detector{
	{regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`), "Private key material committed"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS access key exposed"},
	{regexp.MustCompile(`(?i)aws_secret_access_key\s*[:=]\s*["']?[A-Za-z0-9/+=]{20,}`), "AWS secret access key exposed"},
	{regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{20,}`), "GitHub token exposed"},
	{regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`), "GitHub PAT exposed"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`), "Google API key exposed"},
	{regexp.MustCompile(`xox[baprs]-[A-Za-z0-9\-]{10,}`), "Slack token exposed"},
	{regexp.MustCompile(`sk_(?:live|test)_[0-9A-Za-z]{10,}`), "Stripe secret key exposed"},
	{regexp.MustCompile(`(?i)\bsk-[a-z0-9\-_]{20,}`), "OpenAI API key exposed"},
	{regexp.MustCompile(`"type"\s*:\s*"service_account"`), "GCP service account key committed"},
	{regexp.MustCompile(`://[^\s/:@]+:[^\s/@]+@`), "Credentials embedded in URL"},
	{regexp.MustCompile(`(?i)(api[_-]?key|client[_-]?secret|password|token)\s*[:=]\s*["']?[^\s"'$]{12,}`), "Sensitive credential literal detected"},
}

// ScanSecrets runs the local credential detectors over every readable file of the
// bundle. Each detector reports at most once per file.
func ScanSecrets(b Bundle) []SecretFinding {
	var out []SecretFinding
	for _, e := range b.Entries {
		if e.ReadErr != nil {
			continue
		}
		for _, d := range detectors {
			match := d.re.FindString(e.Content)
			if match == "" {
				continue
			}
			out = append(out, SecretFinding{File: e.Name, Title: d.title, Excerpt: redact(match)})
		}
	}
	return out
}

// redact keeps a short prefix so the finding is recognisable without repeating the secret.
func redact(s string) string {
	const keep = 6
	if len(s) <= keep {
		return "***"
	}
	return s[:keep] + "***"
}
