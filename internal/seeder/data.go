package seeder

var firstNames = []string{
	"Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Sophia", "Mason", "Isabella", "William",
	"Mia", "James", "Charlotte", "Benjamin", "Amelia", "Lucas", "Harper", "Henry", "Evelyn", "Alexander",
	"Abigail", "Michael", "Emily", "Daniel", "Elizabeth", "Matthew", "Sofia", "Joseph", "Avery", "David",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Walker", "Hall", "Allen", "Young", "King", "Wright", "Scott", "Torres", "Nguyen",
}

var adjectives = []string{
	"awesome", "cool", "super", "mega", "ultra", "epic", "great", "amazing", "fantastic", "incredible",
}

var captions = []string{
	"Living my best life ✨", "Sunshine and good vibes ☀️", "Making memories 📸",
	"Just another day in paradise 🌴", "Chasing dreams 💫", "Adventure awaits 🌍",
	"Good times and tan lines 🏖️", "Life is beautiful 🌺", "Stay wild 🌿",
	"Coffee and confidence ☕", "Weekend mood 🎉", "Grateful for moments like these 🙏",
	"New day, new adventures 🚀", "Feeling blessed 💖", "Creating my own sunshine 🌞",
	"Living for the moments you can't put into words", "Collect moments, not things",
	"Do more things that make you forget to check your phone", "Life happens, coffee helps",
	"Sunkissed and blessed", "Good vibes only", "Dream big, sparkle more, shine bright",
}

var commentTexts = []string{
	"Love this! 😍", "Amazing! 🔥", "So cool! 👏", "Beautiful! 💕", "Awesome pic! 📸",
	"Goals! 💯", "Stunning! ✨", "This is everything! 🙌", "So good! 👌", "Perfect! ⭐",
	"Can't stop looking at this!", "Obsessed! 😊", "Pure perfection!", "You're killing it! 🔥",
	"This made my day! 💖", "Incredible shot!", "So inspiring! 🌟", "Wow just wow! 😮",
}

const imageCount = 10
