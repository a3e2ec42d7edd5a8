package wordqueue

import "math/rand/v2"

var vocabulary = [...]string{
	"queen", "hospital", "basketball", "cat", "change", "snail", "soup",
	"calendar", "sad", "desk", "guitar", "home", "railway", "zebra",
	"jelly", "car", "crow", "trade", "bag", "roll", "bubble",
}

// Vocabulary returns a copy of the fixed word list every refill draws from.
func Vocabulary() []string {
	words := make([]string, len(vocabulary))
	copy(words, vocabulary[:])
	return words
}

// Shuffler permutes n elements through swap, matching rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Queue hands out words from a shuffled copy of the vocabulary and
// reshuffles the full vocabulary whenever it runs dry. It is not safe for
// concurrent use; the owning session serializes access.
type Queue struct {
	words   []string
	shuffle Shuffler
	refills int
}

// New loads and shuffles the vocabulary. A nil shuffle uses math/rand/v2.
func New(shuffle Shuffler) *Queue {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	q := &Queue{shuffle: shuffle}
	q.load()
	return q
}

func (q *Queue) load() {
	q.words = Vocabulary()
	q.shuffle(len(q.words), func(i, j int) {
		q.words[i], q.words[j] = q.words[j], q.words[i]
	})
}

// Next removes and returns the first word, refilling first if the queue is empty.
func (q *Queue) Next() string {
	if len(q.words) == 0 {
		q.load()
		q.refills++
	}
	word := q.words[0]
	q.words = q.words[1:]
	return word
}

// Len is the number of words left before the next refill.
func (q *Queue) Len() int {
	return len(q.words)
}

// Refills counts how many times the queue has been reloaded after running dry.
func (q *Queue) Refills() int {
	return q.refills
}
