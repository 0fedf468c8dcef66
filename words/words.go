// Package words holds the per-category word bank and the unused-word picker.
package words

import (
	"math/rand"
	"sort"
)

// bank is keyed by category. Words are stored uppercase because guesses are
// compared case-insensitively.
var bank = map[string][]string{
	"animals": {
		"CAT", "DOG", "RABBIT", "HAMSTER", "GUINEA PIG", "GERBIL", "MOUSE", "RAT", "PARROT", "GOLDFISH",
		"CANARY", "BUDGIE", "TURTLE", "TORTOISE", "LIZARD", "SNAKE", "FROG", "TOAD", "NEWT", "HORSE",
		"PONY", "DONKEY", "MULE", "COW", "BULL", "CALF", "PIG", "PIGLET", "SHEEP", "LAMB",
		"GOAT", "CHICKEN", "ROOSTER", "HEN", "DUCK", "DRAKE", "GOOSE", "GANDER", "TURKEY",
		"DEER", "STAG", "DOE", "FOX", "WOLF", "BEAR", "POLAR BEAR", "PANDA", "KOALA", "KANGAROO",
		"WALLABY", "ELEPHANT", "GIRAFFE", "HIPPOPOTAMUS", "RHINOCEROS", "ZEBRA", "LION", "TIGER", "CHEETAH", "LEOPARD",
		"JAGUAR", "HYENA", "MONKEY", "GORILLA", "CHIMPANZEE", "ORANGUTAN", "BABOON", "MEERKAT", "LEMUR", "OTTER",
		"SEAL", "SEA LION", "WALRUS", "DOLPHIN", "WHALE", "ORCA", "SHARK", "RAY", "STINGRAY", "OCTOPUS",
		"SQUID", "CRAB", "LOBSTER", "PRAWN", "SHRIMP", "STARFISH", "SEAHORSE", "JELLYFISH", "SALMON", "TROUT",
		"CLOWNFISH", "TUNA", "EAGLE", "HAWK", "FALCON", "OWL", "BUZZARD", "VULTURE", "PIGEON", "DOVE",
		"SPARROW", "ROBIN", "BLUE JAY", "BLACKBIRD", "CROW", "RAVEN", "MAGPIE", "WOODPECKER", "SWAN", "DUCKLING",
		"GOSLING", "OSTRICH", "EMU", "PEACOCK", "FLAMINGO", "HERON", "STORK", "CRANE", "PENGUIN", "SEAGULL",
		"BEE", "WASP", "ANT", "BEETLE", "BUTTERFLY", "MOTH", "DRAGONFLY", "LADYBIRD", "SPIDER", "SCORPION",
		"WORM", "SNAIL", "SLUG", "HEDGEHOG", "BADGER", "MOLE", "SQUIRREL", "CHIPMUNK", "RACCOON", "SKUNK",
		"BAT", "BOAR", "HARE", "TURTLEDOVE", "IBIS", "PARAKEET", "MACAW", "COCKATOO", "CHAMELEON", "IGUANA",
		"GECKO", "PYTHON", "BOA", "CROCODILE", "ALLIGATOR", "TAPIR", "ANTELOPE", "GAZELLE", "MOOSE", "ELK",
		"BUFFALO", "BISON", "CAMEL", "ALPACA", "LLAMA", "PORCUPINE", "PLATYPUS", "WOMBAT", "DINGO", "TARSIER",
		"MANATEE", "NARWHAL", "WOLF PUP", "LION CUB", "TIGER CUB", "BABY ELEPHANT", "BABY SEAL", "KITTEN", "PUPPY",
	},
	"objects": {
		"CHAIR", "TABLE", "SOFA", "BED", "PILLOW", "BLANKET", "LAMP", "LIGHT", "TV", "REMOTE",
		"PHONE", "TABLET", "LAPTOP", "KEYBOARD", "MOUSE", "HEADPHONES", "CAMERA", "CLOCK", "WATCH", "MUG",
		"CUP", "BOTTLE", "GLASS", "PLATE", "BOWL", "FORK", "KNIFE", "SPOON", "PAN", "POT",
		"KETTLE", "TOASTER", "FRIDGE", "FREEZER", "OVEN", "MICROWAVE", "BLENDER", "VACUUM", "BUCKET", "BRUSH",
		"BROOM", "MOP", "DUSTER", "BIN", "BACKPACK", "SUITCASE", "WALLET", "PURSE", "UMBRELLA", "COAT",
		"HAT", "SCARF", "GLOVES", "SHOES", "BOOT", "TRAINERS", "SOCKS", "BELT", "TORCH", "CANDLE",
		"BOOK", "NOTEBOOK", "PEN", "PENCIL", "RULER", "ERASER", "SCISSORS", "GLUE", "TAPE", "STAPLER",
		"PAINTBRUSH", "PAINT", "MARKER", "CRAYON", "PAPER", "LETTER", "ENVELOPE", "STAMP", "PARCEL", "BALL",
		"FOOTBALL", "BASKETBALL", "TENNIS BALL", "SKIPPING ROPE", "BAT", "RACKET", "SKATEBOARD", "SCOOTER", "BICYCLE", "HELMET",
		"HAMMER", "SCREWDRIVER", "WRENCH", "SAW", "NAIL", "SCREW", "DRILL", "TAPE MEASURE", "TOOLBOX", "LADDER",
		"HOSE", "WATERING CAN", "PLANT POT", "FLOWER POT", "BINOCULARS", "MAP", "COMPASS", "GUITAR", "DRUM", "PIANO",
		"SPEAKER", "MICROPHONE", "RADIO", "CHARGER", "PLUG", "CABLE", "EXTENSION LEAD", "FAN", "HEATER", "AIR CONDITIONER",
		"CALCULATOR", "WHITEBOARD", "CHALK", "MAGNET", "ROPE", "CHAIN", "PADLOCK", "KEY", "DOOR", "WINDOW",
	},
	"food": {
		"APPLE", "BANANA", "ORANGE", "PEAR", "GRAPE", "STRAWBERRY", "BLUEBERRY", "PINEAPPLE", "MANGO", "WATERMELON",
		"LEMON", "LIME", "CHERRY", "PEACH", "PLUM", "KIWI", "AVOCADO", "TOMATO", "CUCUMBER", "CARROT",
		"POTATO", "ONION", "GARLIC", "BROCCOLI", "CAULIFLOWER", "PEPPER", "CHILLI", "MUSHROOM", "LETTUCE", "SPINACH",
		"PEAS", "SWEETCORN", "BEANS", "RICE", "PASTA", "NOODLES", "BREAD", "TOAST", "BAGEL", "SANDWICH",
		"BURGER", "PIZZA", "HOT DOG", "TACO", "BURRITO", "WRAP", "FRIES", "NUGGETS", "STEAK", "CHICKEN",
		"BACON", "HAM", "SAUSAGE", "MEATBALL", "FISH", "SALMON", "TUNA", "SHRIMP", "CRAB", "LOBSTER",
		"EGG", "CHEESE", "MILK", "BUTTER", "YOGURT", "ICE CREAM", "CHOCOLATE", "CAKE", "COOKIE", "BROWNIE",
		"MUFFIN", "CUPCAKE", "PIE", "DOUGHNUT", "PANCAKE", "WAFFLE", "CEREAL", "PORRIDGE", "SOUP", "SALAD",
		"CURRY", "STIR FRY", "PAELLA", "KEBAB", "CHILLI CON CARNE", "OMELETTE", "RISOTTO", "SUSHI", "RAMEN", "DUMPLING",
		"CHIPS", "POPCORN", "CRISPS", "NUTS", "RAISINS", "JELLY", "CUSTARD", "PUDDING", "FRUIT SALAD", "SMOOTHIE",
		"TEA", "COFFEE", "JUICE", "WATER", "SODA", "LEMONADE", "MILKSHAKE", "HOT CHOCOLATE", "ENERGY DRINK", "ICED TEA",
	},
	"places": {
		"PARK", "BEACH", "MOUNTAIN", "SCHOOL", "HOUSE", "SHOP", "CASTLE", "FOREST", "BRIDGE", "STATION",
		"HOSPITAL", "LIBRARY", "MUSEUM", "AIRPORT", "STADIUM", "PLAYGROUND", "FARM", "CITY", "VILLAGE", "ISLAND",
		"OFFICE", "FACTORY", "WAREHOUSE", "GARAGE", "GARDEN", "BACKYARD", "TOWN HALL", "POLICE STATION", "FIRE STATION", "ZOO",
		"AQUARIUM", "THEME PARK", "AMUSEMENT PARK", "CINEMA", "THEATRE", "RESTAURANT", "CAFE", "SUPERMARKET", "MARKET", "CAR PARK",
		"BUS STOP", "TRAIN PLATFORM", "PORT", "HARBOUR", "LIGHTHOUSE", "RIVER", "LAKE", "DESERT", "JUNGLE", "CAVE",
	},
	"sports": {
		"FOOTBALL", "BASKETBALL", "TENNIS", "GOLF", "SWIMMING", "RUNNING", "CYCLING", "BOXING", "SKIING",
		"SURFING", "VOLLEYBALL", "RUGBY", "CRICKET", "BASEBALL", "TABLE TENNIS", "BADMINTON", "SKATEBOARDING",
		"HOCKEY", "ICE HOCKEY", "HANDBALL", "ARCHERY", "FENCING", "GYMNASTICS", "ROWING", "SAILING", "KARATE", "JUDO",
		"TAEKWONDO", "MARTIAL ARTS", "CLIMBING", "HORSE RIDING",
	},
	"jobs": {
		"TEACHER", "DOCTOR", "NURSE", "POLICE OFFICER", "FIREFIGHTER", "CHEF", "ARTIST", "MUSICIAN", "SCIENTIST",
		"PILOT", "DRIVER", "FARMER", "BUILDER", "ENGINEER", "WRITER", "DANCER", "ACTOR", "HAIRDRESSER",
		"MECHANIC", "ELECTRICIAN", "PLUMBER", "VET", "LAWYER", "JUDGE", "SHOP ASSISTANT", "RECEPTIONIST", "LIBRARIAN", "POSTMAN",
		"DELIVERY DRIVER", "SOFTWARE DEVELOPER", "GAME DESIGNER", "BARBER", "BAKER", "BUTCHER", "NANNY", "PHOTOGRAPHER", "REPORTER", "NEWSREADER",
	},
	"actions": {
		"RUN", "JUMP", "SLEEP", "EAT", "DRINK", "DANCE", "SING", "READ", "WRITE", "DRAW", "SWIM", "FLY",
		"CLIMB", "LAUGH", "CRY", "SMILE", "COOK", "DRIVE", "THROW", "CATCH", "KICK", "HUG", "WAVE", "SHAKE HANDS",
		"BRUSH TEETH", "WASH HANDS", "OPEN DOOR", "CLOSE DOOR", "TURN ON LIGHT", "TURN OFF LIGHT", "RING DOORBELL",
		"PLAY GUITAR", "PLAY PIANO", "TYPE", "PHONE CALL", "TAKE PHOTO", "PAINT",
	},
	"transport": {
		"CAR", "BUS", "TRAIN", "PLANE", "BOAT", "SHIP", "BICYCLE", "MOTORBIKE", "TRAM", "SUBWAY", "HELICOPTER",
		"SCOOTER", "ROCKET", "TAXI", "VAN", "TRUCK", "AMBULANCE", "FIRE ENGINE", "POLICE CAR", "TRACTOR",
		"CANOE", "KAYAK", "FERRY", "CRUISE SHIP", "CABLE CAR", "TANK", "SUBMARINE",
	},
	"fantasy": {
		"DRAGON", "UNICORN", "WIZARD", "CASTLE", "KNIGHT", "PRINCESS", "GIANT", "MERMAID", "GHOST",
		"ROBOT", "ALIEN", "FAIRY", "VAMPIRE", "WEREWOLF", "TREASURE", "MAGIC WAND",
		"POTION", "SPELL BOOK", "MAGIC CARPET", "TROLL", "ELF", "DWARF", "PHOENIX", "GRIFFIN", "TIME MACHINE", "SPACESHIP",
	},
	"wildcard": {
		"RAINBOW", "VOLCANO", "TORNADO", "TREASURE", "MAZE", "PORTAL", "MONSTER", "SANDCASTLE", "SNOWMAN", "ROBOT",
		"ALIEN", "DRAGON", "ISLAND", "CIRCUS", "FUNFAIR", "TIGHTROPE", "MIRROR", "CASTLE", "GADGET", "COMIC",
		"CLOUD", "STORM", "LIGHTNING", "THUNDER", "SUNRISE", "SUNSET", "OCEAN", "FOREST", "JUNGLE", "DESERT",
		"MOUNTAIN", "CAVE", "RIVER", "LAGOON", "CANYON", "GLACIER", "HURRICANE", "WILDFIRE", "AURORA",
		"MAGNET", "BATTERY", "COMPASS", "ROCKET", "TELESCOPE", "SATELLITE", "PLANET", "ASTEROID", "COMET", "GALAXY",
		"SPACESHIP", "UFO", "ANDROID", "DRONE", "LASER", "BEACON", "CRYSTAL", "PUZZLE", "LABYRINTH", "BLUEPRINT",
		"RELIC", "TOTEM", "AMULET", "ORACLE", "FOSSIL", "CHARM", "SPELL", "POTION",
		"SCROLL", "WAND", "RUNES", "ORB", "GEM", "JEWEL", "CROWN", "THRONE", "SCEPTER", "ALTAR",
		"KEYHOLE", "DOORWAY", "WINDOW", "BRIDGE", "TUNNEL", "TOWER", "FURNACE", "CHAMBER", "WORKSHOP", "ARCHIVE",
		"MARKET", "THEATRE", "STUDIO", "FACTORY", "LIBRARY", "GARDEN", "PLAYGROUND", "GARAGE", "BASEMENT",
		"WHIRLWIND", "FIREBALL", "STARLIGHT", "SHADOW", "EMBER", "SPARK", "FLAME", "WAVE", "QUAKE", "BLIZZARD",
		"ANVIL", "HAMMER", "CHISEL", "BRUSH", "PENCIL", "NOTEBOOK", "LANTERN", "RADIO", "CLOCK", "LOCK",
		"SAFE", "CHEST", "BOTTLE", "BARREL", "BUCKET", "BALLOON", "KITE", "DICE", "TOKEN",
		"MASK", "HELMET", "CAPE", "ARMOR", "SHIELD", "SWORD", "AXE", "BOW", "QUIVER", "LANCE",
		"COOKIE", "PANCAKE", "BURGER", "NOODLES", "PIZZA", "APPLE", "BANANA", "ORANGE", "CARROT", "BROCCOLI",
		"PUPPET", "MARIONETTE", "CLOWN", "TRAPEZE", "JUGGLER", "RECORD", "VINYL", "CAMERA", "MICROPHONE",
		"GHOST", "SPIRIT", "PHANTOM", "ZOMBIE", "GOBLIN", "ORC", "WIZARD", "KNIGHT", "FAIRY",
		"LAB", "ARENA", "TEMPLE", "VILLAGE", "CITY", "KINGDOM", "DUNGEON",
	},
}

// IsCategory reports whether key names a known category.
func IsCategory(key string) bool {
	_, ok := bank[key]
	return ok
}

// Categories returns the category keys in sorted order.
func Categories() []string {
	keys := make([]string, 0, len(bank))
	for k := range bank {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Size returns the number of distinct words in a category.
func Size(category string) int {
	seen := map[string]bool{}
	for _, w := range bank[category] {
		seen[w] = true
	}
	return len(seen)
}

// Pick selects an unused word from the category uniformly at random and
// marks it used before returning, so the same word can never be handed out
// twice within one game. Returns false when the category is unknown or
// exhausted.
func Pick(category string, used map[string]bool) (string, bool) {
	list, ok := bank[category]
	if !ok {
		return "", false
	}

	unused := make([]string, 0, len(list))
	seen := map[string]bool{}
	for _, w := range list {
		if used[w] || seen[w] {
			continue
		}
		seen[w] = true
		unused = append(unused, w)
	}
	if len(unused) == 0 {
		return "", false
	}

	word := unused[rand.Intn(len(unused))]
	used[word] = true
	return word, true
}
