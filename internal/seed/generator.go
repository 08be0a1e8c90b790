package seed

import (
	"math/rand"

	"github.com/datawhisperer/datawhisperer/internal/customers"
)

// Canonical is the customer the "who is arjun" prompt example resolves to.
var Canonical = customers.NewCustomer{Name: "Arjun Mehta", Gender: "male", Location: "Pune"}

var (
	maleFirstNames = []string{
		"Aarav", "Vivaan", "Aditya", "Rahul", "Rohan", "Karan", "Vikram", "Siddharth", "Nikhil", "Aniket",
	}
	femaleFirstNames = []string{
		"Priya", "Ananya", "Diya", "Kavya", "Isha", "Meera", "Neha", "Pooja", "Sneha", "Riya",
	}
	lastNames = []string{
		"Sharma", "Verma", "Patel", "Iyer", "Nair", "Reddy", "Gupta", "Singh", "Kulkarni", "Chatterjee", "Joshi", "Desai",
	}
	cities = []string{
		"Mumbai", "Delhi", "Bengaluru", "Hyderabad", "Chennai", "Kolkata", "Pune", "Ahmedabad", "Jaipur", "Kochi",
	}
)

type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

func (g *Generator) NextCustomer() customers.NewCustomer {
	gender := "female"
	first := pickOne(g.rnd, femaleFirstNames)
	if g.rnd.Intn(2) == 0 {
		gender = "male"
		first = pickOne(g.rnd, maleFirstNames)
	}
	return customers.NewCustomer{
		Name:     first + " " + pickOne(g.rnd, lastNames),
		Gender:   gender,
		Location: pickOne(g.rnd, cities),
	}
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
