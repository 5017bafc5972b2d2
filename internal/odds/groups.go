package odds

import "strconv"

// animals indexes the 25 animal names by group (1-based).
var animals = [...]string{
	"", "Avestruz", "Águia", "Burro", "Borboleta", "Cachorro",
	"Cabra", "Carneiro", "Camelo", "Cobra", "Coelho",
	"Cavalo", "Elefante", "Galo", "Gato", "Jacaré",
	"Leão", "Macaco", "Porco", "Pavão", "Peru",
	"Touro", "Tigre", "Urso", "Veado", "Vaca",
}

// AnimalName returns the animal for a group, or "" when out of range.
func AnimalName(group int) string {
	if group < 1 || group > 25 {
		return ""
	}
	return animals[group]
}

// GroupFromTen maps a dezena (0-99) to its group (1-25). Each group owns
// four consecutive dezenas; group 25 wraps around and owns 97, 98, 99, 00.
func GroupFromTen(ten int) int {
	if ten == 0 {
		return 25
	}
	return (ten-1)/4 + 1
}

// GroupFromNumber maps a drawn number (digit string) to its group via the
// final two digits. Non-numeric input yields group 0.
func GroupFromNumber(number string) int {
	if len(number) > 2 {
		number = number[len(number)-2:]
	}
	n, err := strconv.Atoi(number)
	if err != nil || n < 0 {
		return 0
	}
	return GroupFromTen(n)
}

// GroupTens returns the four dezenas owned by a group, ok=false when the
// group is out of range. 00 is reported as 0.
func GroupTens(group int) ([4]int, bool) {
	if group < 1 || group > 25 {
		return [4]int{}, false
	}
	if group == 25 {
		return [4]int{97, 98, 99, 0}, true
	}
	start := (group-1)*4 + 1
	return [4]int{start, start + 1, start + 2, start + 3}, true
}

// GroupsInRange converts drawn numbers to groups over a 1-based position
// range, clamped to the available positions.
func GroupsInRange(numbers []string, from, to int) []int {
	groups := make([]int, 0, to-from+1)
	for i := from - 1; i < to && i < len(numbers); i++ {
		groups = append(groups, GroupFromNumber(numbers[i]))
	}
	return groups
}
