package bot

import "strings"

// sectionEmoji picks an indicator for a section or document name based on
// the study-track keywords the materials use.
func sectionEmoji(name string, isDir bool) string {
	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, "базовый", "введение", "что такое"):
		return "🟢"
	case containsAny(lower, "средний", "атака", "человек"):
		return "🟡"
	case containsAny(lower, "продвинутый", "фишинг", "взлом"):
		return "🔴"
	case containsAny(lower, "команды", "система", "оборудование", "пользователь"):
		return "🔵"
	}

	if isDir {
		return "📁"
	}
	return "📘"
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
