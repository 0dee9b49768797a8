package catalog

import "github.com/yourusername/pitwall/internal/models"

// DefaultTeams is the constructor table for the current season
var DefaultTeams = []models.Team{
	{ID: "red_bull", Name: "Red Bull Racing", Performance: 0.98, Reliability: 0.96},
	{ID: "ferrari", Name: "Ferrari", Performance: 0.96, Reliability: 0.94},
	{ID: "mercedes", Name: "Mercedes", Performance: 0.95, Reliability: 0.95},
	{ID: "mclaren", Name: "McLaren", Performance: 0.97, Reliability: 0.95},
	{ID: "aston_martin", Name: "Aston Martin", Performance: 0.92, Reliability: 0.93},
	{ID: "alpine", Name: "Alpine", Performance: 0.89, Reliability: 0.92},
	{ID: "williams", Name: "Williams", Performance: 0.87, Reliability: 0.91},
	{ID: "rb", Name: "RB", Performance: 0.88, Reliability: 0.92},
	{ID: "haas", Name: "Haas F1 Team", Performance: 0.86, Reliability: 0.90},
	{ID: "sauber", Name: "Sauber", Performance: 0.85, Reliability: 0.90},
}

// DefaultDrivers lists the grid two drivers per team. Drivers without a
// rated skill use DefaultSkill.
var DefaultDrivers = []DriverProfile{
	{Driver: models.Driver{ID: "ver", Code: "VER", Name: "Max Verstappen", TeamID: "red_bull", Number: 1}, Skill: 0.98},
	{Driver: models.Driver{ID: "per", Code: "PER", Name: "Sergio Perez", TeamID: "red_bull", Number: 11}, Skill: 0.92},
	{Driver: models.Driver{ID: "lec", Code: "LEC", Name: "Charles Leclerc", TeamID: "ferrari", Number: 16}, Skill: 0.95},
	{Driver: models.Driver{ID: "sai", Code: "SAI", Name: "Carlos Sainz", TeamID: "ferrari", Number: 55}, Skill: 0.94},
	{Driver: models.Driver{ID: "ham", Code: "HAM", Name: "Lewis Hamilton", TeamID: "mercedes", Number: 44}, Skill: 0.96},
	{Driver: models.Driver{ID: "rus", Code: "RUS", Name: "George Russell", TeamID: "mercedes", Number: 63}, Skill: 0.94},
	{Driver: models.Driver{ID: "nor", Code: "NOR", Name: "Lando Norris", TeamID: "mclaren", Number: 4}, Skill: 0.96},
	{Driver: models.Driver{ID: "pia", Code: "PIA", Name: "Oscar Piastri", TeamID: "mclaren", Number: 81}, Skill: 0.93},
	{Driver: models.Driver{ID: "alo", Code: "ALO", Name: "Fernando Alonso", TeamID: "aston_martin", Number: 14}, Skill: 0.95},
	{Driver: models.Driver{ID: "str", Code: "STR", Name: "Lance Stroll", TeamID: "aston_martin", Number: 18}, Skill: 0.90},
	{Driver: models.Driver{ID: "gas", Code: "GAS", Name: "Pierre Gasly", TeamID: "alpine", Number: 10}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "oco", Code: "OCO", Name: "Esteban Ocon", TeamID: "alpine", Number: 31}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "alb", Code: "ALB", Name: "Alexander Albon", TeamID: "williams", Number: 23}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "sar", Code: "SAR", Name: "Logan Sargeant", TeamID: "williams", Number: 2}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "tsu", Code: "TSU", Name: "Yuki Tsunoda", TeamID: "rb", Number: 22}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "law", Code: "LAW", Name: "Liam Lawson", TeamID: "rb", Number: 40}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "mag", Code: "MAG", Name: "Kevin Magnussen", TeamID: "haas", Number: 20}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "hul", Code: "HUL", Name: "Nico Hulkenberg", TeamID: "haas", Number: 27}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "bot", Code: "BOT", Name: "Valtteri Bottas", TeamID: "sauber", Number: 77}, Skill: DefaultSkill},
	{Driver: models.Driver{ID: "zho", Code: "ZHO", Name: "Guanyu Zhou", TeamID: "sauber", Number: 24}, Skill: DefaultSkill},
}

// DefaultCircuits is the venue table keyed by circuit id
var DefaultCircuits = []models.Circuit{
	{ID: "monaco", Name: "Circuit de Monaco", Country: "Monaco", City: "Monte Carlo", LengthKM: 3.337, Laps: 78},
	{ID: "monza", Name: "Autodromo Nazionale Monza", Country: "Italy", City: "Monza", LengthKM: 5.793, Laps: 53},
	{ID: "spa", Name: "Circuit de Spa-Francorchamps", Country: "Belgium", City: "Spa", LengthKM: 7.004, Laps: 44},
	{ID: "silverstone", Name: "Silverstone Circuit", Country: "UK", City: "Silverstone", LengthKM: 5.891, Laps: 52},
	{ID: "catalunya", Name: "Circuit de Barcelona-Catalunya", Country: "Spain", City: "Barcelona", LengthKM: 4.675, Laps: 66},
	{ID: "albert_park", Name: "Albert Park Circuit", Country: "Australia", City: "Melbourne", LengthKM: 5.278, Laps: 58},
	{ID: "villeneuve", Name: "Circuit Gilles Villeneuve", Country: "Canada", City: "Montreal", LengthKM: 4.361, Laps: 70},
	{ID: "baku", Name: "Baku City Circuit", Country: "Azerbaijan", City: "Baku", LengthKM: 6.003, Laps: 51},
	{ID: "hungaroring", Name: "Hungaroring", Country: "Hungary", City: "Budapest", LengthKM: 4.381, Laps: 70},
	{ID: "suzuka", Name: "Suzuka International Racing Course", Country: "Japan", City: "Suzuka", LengthKM: 5.807, Laps: 53},
	{ID: "marina_bay", Name: "Marina Bay Street Circuit", Country: "Singapore", City: "Singapore", LengthKM: 5.063, Laps: 61},
	{ID: "americas", Name: "Circuit of the Americas", Country: "USA", City: "Austin", LengthKM: 5.513, Laps: 56},
	{ID: "rodriguez", Name: "Autódromo Hermanos Rodríguez", Country: "Mexico", City: "Mexico City", LengthKM: 4.304, Laps: 71},
	{ID: "interlagos", Name: "Autódromo José Carlos Pace", Country: "Brazil", City: "São Paulo", LengthKM: 4.309, Laps: 71},
	{ID: "yas_marina", Name: "Yas Marina Circuit", Country: "UAE", City: "Abu Dhabi", LengthKM: 5.554, Laps: 55},
	{ID: "bahrain", Name: "Bahrain International Circuit", Country: "Bahrain", City: "Sakhir", LengthKM: 5.412, Laps: 57},
	{ID: "jeddah", Name: "Jeddah Corniche Circuit", Country: "Saudi Arabia", City: "Jeddah", LengthKM: 6.174, Laps: 50},
	{ID: "imola", Name: "Autodromo Enzo e Dino Ferrari", Country: "Italy", City: "Imola", LengthKM: 4.909, Laps: 63},
	{ID: "miami", Name: "Miami International Autodrome", Country: "USA", City: "Miami", LengthKM: 5.412, Laps: 57},
	{ID: "zandvoort", Name: "Circuit Zandvoort", Country: "Netherlands", City: "Zandvoort", LengthKM: 4.259, Laps: 72},
	{ID: "las_vegas", Name: "Las Vegas Strip Circuit", Country: "USA", City: "Las Vegas", LengthKM: 6.12, Laps: 50},
	{ID: "losail", Name: "Losail International Circuit", Country: "Qatar", City: "Lusail", LengthKM: 5.38, Laps: 57},
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(DefaultTeams, DefaultDrivers, DefaultCircuits)
	if err != nil {
		panic(err)
	}
	return c
}
