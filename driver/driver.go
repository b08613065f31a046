package driver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout   = 5 * time.Second
	pingTimeout      = 2 * time.Second
	operationTimeout = 5 * time.Second

	// batches at or below this size go out in a single InsertMany
	chunkThreshold = 1000
	chunkPercent   = 30.0

	defaultPerPage = 10
	maxPerPage     = 300
)

// ErrNotFound is wrapped by FindByID when no document has the given id.
var ErrNotFound = errors.New("record not found")

// used for results mapping
type Pagination struct {
	TotalPages  int
	CurrentPage int
	NextPage    int
	PrevPage    int
	LastPage    int
	PerPage     int
}

// results mapping
type Results struct {
	Table      string
	Count      int64
	Results    []map[string]interface{}
	Pagination Pagination
}

type MongoDBHandler struct {
	cfg    config.Mongo
	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
}

// MongoError describes a failed operation against the server.
type MongoError struct {
	Code      int
	Database  string
	Table     string
	Operation string
	Err       error
}

func (e *MongoError) Error() string {
	msg := e.Operation + " failed"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Table != "" {
		return fmt.Sprintf("%s [database=%s, table=%s]", msg, e.Database, e.Table)
	}
	if e.Database != "" {
		return fmt.Sprintf("%s [database=%s]", msg, e.Database)
	}
	return msg
}

func (e *MongoError) Unwrap() error {
	return e.Err
}

// initializes the mongo handler driver
// the connection is opened on first use
func MongoDB(cfg config.Mongo) *MongoDBHandler {
	return &MongoDBHandler{
		cfg:    cfg,
		logger: log.New(os.Stdout, "[MONGO-DB-DRIVER]: ", log.Ldate|log.Ltime),
	}
}

// SetLogger replaces the driver logger.
func (mh *MongoDBHandler) SetLogger(logger *log.Logger) *MongoDBHandler {
	mh.logger = logger
	return mh
}

func (mh *MongoDBHandler) Database() string {
	return mh.cfg.Database
}

func (mh *MongoDBHandler) clientOptions() *options.ClientOptions {
	clientOptions := options.Client().ApplyURI(mh.cfg.URI()).
		SetMaxPoolSize(15).
		SetSocketTimeout(3 * time.Second)

	if mh.cfg.Username != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   mh.cfg.Username,
			Password:   mh.cfg.Password,
			AuthSource: mh.cfg.AuthSource,
		})
	}
	return clientOptions
}

// handles connectivity
func (mh *MongoDBHandler) getConnection(ctx context.Context) error {
	mh.mu.Lock()
	defer mh.mu.Unlock()

	if mh.client != nil {
		if mh.cfg.Debug {
			mh.logger.Println("Connection still active, using previous connection...")
		}
		return nil
	}

	mh.logger.Printf("Connecting to Mongo Server at %s...", mh.cfg.URI())

	ctxConnect, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, mh.clientOptions())
	if err != nil {
		mh.logger.Printf("Connection to MongoDB server failed: %s", err)
		return mh.newMongoError(500, "connect", "", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, pingTimeout)
	defer cancelPing()

	if err := client.Ping(ctxPing, nil); err != nil {
		mh.logger.Printf("Ping to MongoDB server failed: %s", err)
		_ = client.Disconnect(context.Background())
		return mh.newMongoError(503, "ping", "", err)
	}

	mh.client = client
	mh.db = client.Database(mh.cfg.Database)

	mh.logger.Println("Connection to Mongo Server successful!")
	return nil
}

// Ping opens the connection if needed and checks the server answers.
func (mh *MongoDBHandler) Ping(ctx context.Context) error {
	return mh.getConnection(ctx)
}

func (mh *MongoDBHandler) collection(ctx context.Context, table string) (*mongo.Collection, error) {
	if err := mh.getConnection(ctx); err != nil {
		return nil, err
	}
	return mh.db.Collection(table), nil
}

func convertMongoID(id interface{}) string {
	if objID, ok := id.(primitive.ObjectID); ok {
		return objID.Hex()
	}
	return fmt.Sprintf("%v", id)
}

// InsertOne writes a single document and returns its id.
func (mh *MongoDBHandler) InsertOne(ctx context.Context, table string, doc interface{}) (string, error) {
	coll, err := mh.collection(ctx, table)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	result, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return "", mh.newMongoError(500, "insert", table, err)
	}
	return convertMongoID(result.InsertedID), nil
}

// used for chunking provided data
// in order to handle
// multiple smaller
// inserts at the same time
func chunkSlice(slice []interface{}, chunkSize int) [][]interface{} {
	if chunkSize <= 0 {
		chunkSize = len(slice)
	}
	var chunks [][]interface{}
	for chunkSize < len(slice) {
		slice, chunks = slice[chunkSize:], append(chunks, slice[0:chunkSize:chunkSize])
	}
	chunks = append(chunks, slice)
	return chunks
}

// split the batch into a number that is percentage based
func calculateBatchSize(totalRecords int, percentage float64) int {
	batchSize := int(float64(totalRecords) * percentage / 100.0)
	if batchSize < 1 {
		batchSize = 1
	}
	return batchSize
}

type chunkResult struct {
	index int
	ids   []string
	err   error
}

func (mh *MongoDBHandler) insertChunk(ctx context.Context, coll *mongo.Collection, index int, chunk []interface{}, wg *sync.WaitGroup, resultCh chan<- chunkResult) {
	defer wg.Done()

	result, err := coll.InsertMany(ctx, chunk)
	if err != nil {
		resultCh <- chunkResult{index: index, err: mh.newMongoError(500, "insert", coll.Name(), err)}
		return
	}

	ids := make([]string, len(result.InsertedIDs))
	for i, id := range result.InsertedIDs {
		ids[i] = convertMongoID(id)
	}
	resultCh <- chunkResult{index: index, ids: ids}
}

// InsertMany writes docs and returns their ids in input order. Large batches
// are split into chunks that are inserted concurrently.
func (mh *MongoDBHandler) InsertMany(ctx context.Context, table string, docs []interface{}) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}

	coll, err := mh.collection(ctx, table)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var chunks [][]interface{}
	if len(docs) <= chunkThreshold {
		chunks = [][]interface{}{docs}
	} else {
		chunks = chunkSlice(docs, calculateBatchSize(len(docs), chunkPercent))
	}

	var wg sync.WaitGroup
	resultCh := make(chan chunkResult, len(chunks))
	for i, chunk := range chunks {
		wg.Add(1)
		go mh.insertChunk(ctx, coll, i, chunk, &wg, resultCh)
	}

	wg.Wait()
	close(resultCh)

	ordered := make([][]string, len(chunks))
	for res := range resultCh {
		if res.err != nil {
			return nil, res.err
		}
		ordered[res.index] = res.ids
	}

	ids := make([]string, 0, len(docs))
	for _, chunkIDs := range ordered {
		ids = append(ids, chunkIDs...)
	}
	return ids, nil
}

// Count returns the number of documents in table.
func (mh *MongoDBHandler) Count(ctx context.Context, table string) (int64, error) {
	coll, err := mh.collection(ctx, table)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	total, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, mh.newMongoError(500, "count", table, err)
	}
	return total, nil
}

// Recent returns up to limit documents ordered by created_at, newest first.
func (mh *MongoDBHandler) Recent(ctx context.Context, table string, limit int) ([]map[string]interface{}, error) {
	coll, err := mh.collection(ctx, table)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	return mh.findAll(ctx, coll, bson.D{}, opts)
}

// pageBounds clamps page and perPage to usable values.
func pageBounds(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func paginate(total int64, page, perPage int) Pagination {
	totalPages := (int(total) + perPage - 1) / perPage
	prevPage := 1
	nextPage := 1

	if page > 1 {
		prevPage = page - 1
	}
	if page < totalPages {
		nextPage = page + 1
	}

	return Pagination{
		TotalPages:  totalPages,
		CurrentPage: page,
		NextPage:    nextPage,
		PrevPage:    prevPage,
		LastPage:    totalPages,
		PerPage:     perPage,
	}
}

// Find returns one page of the documents of table matching filter, in
// insertion order. A nil filter matches everything.
func (mh *MongoDBHandler) Find(ctx context.Context, table string, filter map[string]interface{}, page, perPage int) (*Results, error) {
	coll, err := mh.collection(ctx, table)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = map[string]interface{}{}
	}
	page, perPage = pageBounds(page, perPage)

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, mh.newMongoError(500, "count", table, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(perPage)).
		SetSkip(int64((page - 1) * perPage))

	results, err := mh.findAll(ctx, coll, filter, opts)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []map[string]interface{}{}
	}

	return &Results{
		Table:      table,
		Count:      total,
		Results:    results,
		Pagination: paginate(total, page, perPage),
	}, nil
}

func (mh *MongoDBHandler) findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions) ([]map[string]interface{}, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mh.newMongoError(500, "find", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var results []map[string]interface{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, mh.newMongoError(500, "decode", coll.Name(), err)
		}
		results = append(results, normalizeID(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, mh.newMongoError(500, "find", coll.Name(), err)
	}
	return results, nil
}

func normalizeID(doc bson.M) map[string]interface{} {
	if id, ok := doc["_id"]; ok {
		doc["_id"] = convertMongoID(id)
	}
	return doc
}

// FindByID looks a document up by its ObjectID hex, falling back to a plain
// string id. A missing document yields a 404 MongoError wrapping ErrNotFound.
func (mh *MongoDBHandler) FindByID(ctx context.Context, table, id string) (map[string]interface{}, error) {
	coll, err := mh.collection(ctx, table)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	filters := []bson.M{{"_id": id}}
	if objID, objErr := primitive.ObjectIDFromHex(id); objErr == nil {
		filters = []bson.M{{"_id": objID}, {"_id": id}}
	}

	for _, filter := range filters {
		var doc bson.M
		err := coll.FindOne(ctx, filter).Decode(&doc)
		if err == nil {
			return normalizeID(doc), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mh.newMongoError(500, "find", table, err)
		}
	}
	return nil, mh.newMongoError(404, "find", table, fmt.Errorf("%w: %s", ErrNotFound, id))
}

// Exists reports whether any document of table matches filter.
func (mh *MongoDBHandler) Exists(ctx context.Context, table string, filter map[string]interface{}) (bool, error) {
	coll, err := mh.collection(ctx, table)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, mh.newMongoError(500, "count", table, err)
	}
	return n > 0, nil
}

// ListCollections returns the collection names of the configured database.
func (mh *MongoDBHandler) ListCollections(ctx context.Context) ([]string, error) {
	if err := mh.getConnection(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	names, err := mh.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, mh.newMongoError(500, "list collections", "", err)
	}
	return names, nil
}

// Close disconnects the client if one was opened.
func (mh *MongoDBHandler) Close(ctx context.Context) error {
	mh.mu.Lock()
	defer mh.mu.Unlock()

	if mh.client == nil {
		return nil
	}
	err := mh.client.Disconnect(ctx)
	mh.client = nil
	mh.db = nil
	if err != nil {
		return mh.newMongoError(500, "disconnect", "", err)
	}
	mh.logger.Println("MongoDB connection closed")
	return nil
}

func (mh *MongoDBHandler) newMongoError(code int, operation, table string, err error) *MongoError {
	return &MongoError{
		Code:      code,
		Database:  mh.cfg.Database,
		Table:     table,
		Operation: operation,
		Err:       err,
	}
}
