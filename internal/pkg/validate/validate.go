package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Username rules follow the registration form: 3-32 chars, letters,
// digits, underscores, starting with a letter.
func Username(value string) []string {
	value = strings.TrimSpace(value)
	var problems []string

	if value == "" {
		return []string{"Username is required"}
	}
	if len(value) < 3 || len(value) > 32 {
		problems = append(problems, "Username must be between 3 and 32 characters")
	}
	for i, r := range value {
		if i == 0 && !isLetter(r) {
			problems = append(problems, "Username must start with a letter")
			continue
		}
		if !isLetter(r) && !isDigit(r) && r != '_' {
			problems = append(problems, "Username may only contain letters, digits and underscores")
			break
		}
	}

	return problems
}

func Email(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{"Email is required"}
	}

	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return []string{"Email is not valid"}
	}
	domain := value[at+1:]
	if !strings.Contains(domain, ".") || strings.ContainsAny(value, " \t") {
		return []string{"Email is not valid"}
	}

	return nil
}

func Password(value string) []string {
	var problems []string

	if value == "" {
		return []string{"Password is required"}
	}
	if len(value) < 8 {
		problems = append(problems, "Password must be at least 8 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range value {
		switch {
		case isLetter(r):
			hasLetter = true
		case isDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		problems = append(problems, "Password must contain at least one letter and one digit")
	}

	return problems
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
