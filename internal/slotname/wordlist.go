package slotname

// words is the fixed vocabulary slot names are drawn from. It must never
// change between releases: names are cosmetic but persistent identifiers
// that end up in state files, shell history, and muscle memory.
var words = []string{
	"acorn", "agate", "alder", "amber", "anvil", "apple", "arbor", "arch", "arrow", "ashen",
	"aspen", "atlas", "aura", "autumn", "badge", "baker", "balsa", "banjo", "barge", "basil",
	"beach", "beacon", "bead", "beaker", "beam", "bear", "beaver", "beech", "bell", "berry",
	"bevel", "bingo", "birch", "bison", "blaze", "bloom", "blue", "boast", "boat", "bolt",
	"bone", "boost", "boulder", "bramble", "brass", "brave", "bread", "breeze", "brick", "bridge",
	"brisk", "broad", "bronze", "brook", "brush", "bubble", "buckle", "budge", "bugle", "bunker",
	"burro", "cabin", "cable", "cactus", "calm", "camel", "canal", "candle", "canoe", "canyon",
	"cape", "caper", "carbon", "carrot", "cascade", "castle", "cave", "cedar", "cellar", "chalk",
	"charm", "chart", "chase", "cherry", "chess", "chime", "chisel", "cinder", "circuit", "clamp",
	"clay", "cliff", "clover", "coast", "cobalt", "coil", "compass", "copper", "coral", "corn",
	"cosmos", "cotton", "cove", "coyote", "crag", "crane", "crater", "creek", "crest", "cricket",
	"crimson", "crisp", "crow", "crown", "crumb", "crystal", "cub", "cubic", "current", "dale",
	"dawn", "delta", "dense", "depot", "desert", "dew", "diamond", "dipper", "ditch", "dock",
	"dove", "drift", "drizzle", "drum", "dune", "dusk", "eagle", "earth", "echo", "eddy",
	"elbow", "elder", "ember", "emerald", "engine", "ensign", "envoy", "falcon", "fawn", "feather",
	"fence", "fern", "field", "finch", "fir", "flare", "flask", "fleet", "flicker", "flint",
	"flood", "flora", "flour", "flute", "foam", "forest", "forge", "fork", "fossil", "fox",
	"frame", "frost", "garden", "gate", "gecko", "gem", "glacier", "glade", "gleam", "glen",
	"globe", "gopher", "gorge", "grain", "grape", "gravel", "grove", "gull", "gust", "hail",
	"halo", "harbor", "hare", "harvest", "hawk", "hazel", "heath", "heron", "hickory", "hide",
	"hill", "hinge", "holly", "honey", "hoof", "hoop", "horizon", "horn", "hound", "husk",
	"ice", "indigo", "inlet", "iris", "ivory", "ivy", "jade", "jasper", "jay", "jelly",
	"jewel", "jolt", "jungle", "juniper", "kelp", "kestrel", "kettle", "key", "kiln", "kite",
	"knoll", "koala", "lagoon", "lake", "lamp", "lantern", "larch", "lark", "latch", "leaf",
	"ledge", "lemon", "lichen", "lilac", "lily", "linen", "lint", "loaf", "lode", "log",
	"loom", "loon", "lotus", "lynx", "maple", "marble", "marsh", "meadow", "mesa", "mica",
	"mint", "mirror", "mist", "mitten", "moat", "moon", "moss", "moth", "mound", "mouse",
	"mulch", "myrtle", "nectar", "needle", "nest", "nickel", "nimbus", "noon", "nugget", "oak",
	"oasis", "oat", "opaline", "ocean", "olive", "onyx", "opal", "orbit", "orchard", "osprey",
	"otter", "owl", "paddle", "palm", "panda", "panther", "parcel", "pasture", "peach", "peak",
	"pearl", "pebble", "pelican", "pepper", "petal", "phlox", "pier", "pigeon", "pine", "pinch",
	"pioneer", "plaza", "plum", "plume", "pocket", "pond", "poppy", "prairie", "prism",
	"puddle", "puffin", "pumice", "quail", "quarry", "quartz", "quay", "quilt", "quiver", "rabbit",
	"raft", "rain", "raven", "reed", "reef", "relic", "ridge", "rift", "river", "robin",
	"rock", "root", "rose", "rover", "rustic", "saddle", "sage", "salt", "sand", "sapling",
	"satin", "sedge", "shade", "shale", "shard", "shell", "shore", "silt", "slate", "sleet",
	"sliver", "sloth", "snail", "snow", "sorrel", "sparrow", "spindle", "spore", "spring", "spruce",
	"squall", "squash", "stag", "stalk", "stone", "storm", "stream", "sunset", "swallow", "swan",
	"sylvan", "tangle", "teal", "tern", "thicket", "thistle", "thorn", "thyme", "tidal", "tide",
	"timber", "toad", "torrent", "trail", "trench", "trout", "trove", "tulip", "tundra", "turtle",
	"twig", "umber", "valley", "vapor", "vein", "velvet", "verdant", "vine", "violet", "vista",
	"wagon", "walnut", "warbler", "wasp", "wave", "well", "whale", "wheat", "whisk", "willow",
	"wisp", "wolf", "wood", "wren", "yew", "zephyr",
}
