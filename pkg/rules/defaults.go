package rules

// defaultRules returns the stock category table.
//
// The order below is the default classification precedence. Archives list
// ".tar.gz" ahead of ".gz" for readability only; matching is longest-suffix
// first, so the order within a category does not affect the outcome.
func defaultRules() []Rule {
	return []Rule{
		{
			Category:   "Documents",
			Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".md"},
		},
		{
			Category:   "Spreadsheets",
			Extensions: []string{".xls", ".xlsx", ".csv"},
		},
		{
			Category:   "Presentations",
			Extensions: []string{".ppt", ".pptx"},
		},
		{
			Category:   "Images",
			Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".bmp", ".svg"},
		},
		{
			Category:   "Videos",
			Extensions: []string{".mp4", ".mov", ".mkv", ".avi", ".wmv", ".webm"},
		},
		{
			Category:   "Audio",
			Extensions: []string{".mp3", ".wav", ".m4a", ".aac", ".flac"},
		},
		{
			Category:   "Archives",
			Extensions: []string{".zip", ".rar", ".7z", ".tar", ".tar.gz", ".gz", ".tgz"},
		},
		{
			Category:   "Installers",
			Extensions: []string{".dmg", ".pkg", ".msi", ".exe"},
		},
	}
}
